package adapters

import (
	"context"
	"log/slog"
	"strconv"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
	"expensetracker/internal/storage"
)

// SyncPublisher announces a freshly stored row to the sync worker.
type SyncPublisher interface {
	PublishRowSync(ctx context.Context, table ports.Table, id int64) error
}

// SQLiteAdapter is the local-first RecordStore: rows are written to SQLite
// and announced over AMQP; the sync worker copies them to the spreadsheet.
// Reads are always served from SQLite.
type SQLiteAdapter struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

var _ ports.RecordStore = (*SQLiteAdapter)(nil)

// NewSQLiteAdapter builds the adapter. A nil publisher leaves rows pending
// for the worker's periodic sweep.
func NewSQLiteAdapter(storage *storage.SQLiteRepository, publisher SyncPublisher) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage:   storage,
		publisher: publisher,
	}
}

// AppendRow implements sheets.RowAppender. A failed publish is not an error:
// the row is already durable and stays pending.
func (a *SQLiteAdapter) AppendRow(ctx context.Context, table ports.Table, values []any) (string, error) {
	id, err := a.storage.Insert(ctx, table, values)
	if err != nil {
		return "", err
	}

	if a.publisher != nil {
		if err := a.publisher.PublishRowSync(ctx, table, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish sync message, row left for sweep",
				"table", table,
				"id", id,
				"error", err)
		}
	}
	return strconv.FormatInt(id, 10), nil
}

// GetAllRecords implements sheets.RecordReader
func (a *SQLiteAdapter) GetAllRecords(ctx context.Context, table ports.Table) ([]core.Record, error) {
	return a.storage.GetAllRecords(ctx, table)
}

func (a *SQLiteAdapter) Close() error {
	return a.storage.Close()
}
