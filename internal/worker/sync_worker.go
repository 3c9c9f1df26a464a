package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
	"expensetracker/internal/storage"
)

// RowStore is the local side of the sync: the SQLite repository.
type RowStore interface {
	GetRow(ctx context.Context, table ports.Table, id int64) (core.Record, error)
	SyncStatus(ctx context.Context, table ports.Table, id int64) (string, error)
	PendingRows(ctx context.Context, limit int) ([]storage.PendingRow, error)
	MarkSynced(ctx context.Context, table ports.Table, id int64) error
	MarkSyncError(ctx context.Context, table ports.Table, id int64, cause error) error
}

// SyncWorker copies locally stored rows to the spreadsheet. Rows arrive
// either as AMQP messages or through the periodic pending sweep.
type SyncWorker struct {
	store     RowStore
	sheets    ports.RowAppender
	batchSize int

	// One row at a time, so the consumer and the sweep never append the same row twice.
	mu sync.Mutex
}

func NewSyncWorker(store RowStore, sheets ports.RowAppender, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		store:     store,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one row sync message. Rows that cannot be
// synced stay pending for the sweep, so the message is acked. Only a
// cancelled ctx returns an error, which requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RowSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"message_id", msg.MessageID,
		"table", msg.Table,
		"id", msg.ID)

	err := w.syncRow(ctx, msg.Table, msg.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrRowNotFound):
		slog.WarnContext(ctx, "Row for sync message not found, dropping", "table", msg.Table, "id", msg.ID)
		return nil
	case errors.Is(err, errSyncFailed):
		return nil
	case ctx.Err() != nil:
		return err
	default:
		slog.WarnContext(ctx, "Row sync deferred to sweep", "table", msg.Table, "id", msg.ID, "error", err)
		return nil
	}
}

// errSyncFailed marks failures already recorded on the row.
var errSyncFailed = errors.New("sync failed")

// ProcessPending syncs up to limit pending rows. It is the backup path for
// lost messages and worker downtime.
func (w *SyncWorker) ProcessPending(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.store.PendingRows(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending rows: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	slog.InfoContext(ctx, "Processing pending rows", "count", len(pending))
	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		if err := w.syncRow(ctx, p.Table, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync row", "table", p.Table, "id", p.ID, "attempts", p.Attempts+1, "error", err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

// RunSweeper runs a larger startup sweep and then one batch per interval
// until ctx is done.
func (w *SyncWorker) RunSweeper(ctx context.Context, interval time.Duration) error {
	synced, failed, err := w.ProcessPending(ctx, w.batchSize*5)
	if err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	} else {
		slog.InfoContext(ctx, "Startup sync completed", "synced", synced, "errors", failed)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, _, err := w.ProcessPending(ctx, w.batchSize); err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncRow(ctx context.Context, table ports.Table, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, err := w.store.SyncStatus(ctx, table, id)
	if err != nil {
		return fmt.Errorf("get sync status: %w", err)
	}
	if status == storage.SyncSynced {
		slog.DebugContext(ctx, "Row already synced", "table", table, "id", id)
		return nil
	}

	rec, err := w.store.GetRow(ctx, table, id)
	if err != nil {
		return fmt.Errorf("get row from storage: %w", err)
	}

	values, err := canonicalRow(table, rec)
	if err != nil {
		w.markError(ctx, table, id, err)
		return fmt.Errorf("%w: decode %s row %d: %w", errSyncFailed, table, id, err)
	}

	ref, err := w.sheets.AppendRow(ctx, table, values)
	if err != nil {
		w.markError(ctx, table, id, err)
		return fmt.Errorf("%w: append to sheets: %w", errSyncFailed, err)
	}

	if err := w.store.MarkSynced(ctx, table, id); err != nil {
		// The append went through; a later sweep would duplicate the row
		slog.ErrorContext(ctx, "Failed to mark as synced", "table", table, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced row", "table", table, "id", id, "sheets_ref", ref)
	return nil
}

func (w *SyncWorker) markError(ctx context.Context, table ports.Table, id int64, cause error) {
	if err := w.store.MarkSyncError(ctx, table, id, cause); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "table", table, "id", id, "error", err)
	}
}

// canonicalRow decodes a stored record and re-encodes it in column order.
func canonicalRow(table ports.Table, rec core.Record) ([]any, error) {
	switch table {
	case ports.TableExpenses:
		e, err := core.ExpenseFromRecord(rec)
		if err != nil {
			return nil, err
		}
		return e.Row(), nil
	case ports.TableBudget:
		b, err := core.BudgetEntryFromRecord(rec)
		if err != nil {
			return nil, err
		}
		return b.Row(), nil
	case ports.TableSavings:
		s, err := core.SavingsEntryFromRecord(rec)
		if err != nil {
			return nil, err
		}
		return s.Row(), nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}
