package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	gsheet "expensetracker/internal/sheets/google"
	"expensetracker/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(applog.ComponentWorker, cfg.Level(slog.LevelInfo), os.Stdout)
	logger.Info("Starting expense-sync-worker",
		applog.FieldOperation, applog.OpStartup,
		"batch_size", cfg.SyncBatchSize,
		"interval", cfg.SyncInterval)

	ctx, cancel := cli.SignalContext(context.Background(), logger.Logger)
	defer cancel()

	repo, err := cli.InitSQLite(logger.Logger, cfg.SQLiteDBPath)
	if err != nil {
		os.Exit(1)
	}
	defer repo.Close()

	sheetsClient, err := gsheet.New(ctx, backend.SheetsConfigFromAppConfig(cfg))
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, cfg.SyncBatchSize)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			cli.Fatal(logger.Logger, "Failed to initialize AMQP client", err)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeRowSync(gctx, syncWorker.HandleSyncMessage)
		})
	} else {
		logger.Info("AMQP disabled, relying on the periodic sweep only")
	}

	g.Go(func() error {
		return syncWorker.RunSweeper(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
}
