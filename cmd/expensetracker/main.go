package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/shell"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig((*config.Config).Validate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Prompts go to stdout, logs to stderr
	logger := cli.SetupLogger(applog.ComponentShell, cfg.Level(slog.LevelWarn), os.Stderr)

	ctx, cancel := cli.SignalContext(context.Background(), logger.Logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Invalid backend configuration", err)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to create backend", err)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", "error", err)
		}
	}()

	policy, err := services.ParseRangePolicy(cfg.RangePolicy)
	if err != nil {
		cli.Fatal(logger.Logger, "Invalid range policy", err)
	}
	svcCfg := services.DefaultExpenseServiceConfig()
	svcCfg.StoreTimeout = cfg.StoreTimeout
	svcCfg.RangePolicy = policy
	svcCfg.Logger = logger.WithComponent(applog.ComponentExpense).Logger
	svc := services.NewExpenseService(result.Backend, svcCfg)

	sh := shell.New(svc, os.Stdin, os.Stdout, shell.Config{
		CurrencySymbol: cfg.CurrencySymbol,
		Logger:         logger.Logger,
	})
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Shell stopped", "error", err)
	}
}
