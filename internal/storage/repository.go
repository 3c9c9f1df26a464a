package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"

	_ "modernc.org/sqlite"
)

// Sync states of a stored row.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// MaxSyncAttempts bounds how often a failing row is handed back by PendingRows.
const MaxSyncAttempts = 5

// ErrRowNotFound is returned by GetRow for an unknown id.
var ErrRowNotFound = errors.New("row not found")

// tableSchema maps a logical table onto its SQLite table and columns.
type tableSchema struct {
	name    string
	columns []string // SQL columns, same order as the record columns
}

var schemas = map[ports.Table]tableSchema{
	ports.TableExpenses: {name: "expenses", columns: []string{"date", "name", "amount", "category"}},
	ports.TableBudget:   {name: "budgets", columns: []string{"month", "amount"}},
	ports.TableSavings:  {name: "savings", columns: []string{"month", "amount"}},
}

func schemaFor(table ports.Table) (tableSchema, error) {
	s, ok := schemas[table]
	if !ok {
		return tableSchema{}, fmt.Errorf("unknown table %q", table)
	}
	return s, nil
}

// PendingRow identifies a row that still has to reach the spreadsheet.
type PendingRow struct {
	Table     ports.Table
	ID        int64
	Attempts  int
	CreatedAt time.Time
}

// SQLiteRepository is the local-first RecordStore. Every appended row starts
// out pending and is later marked synced by the sync worker.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.RecordStore = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database at dbPath and migrates it.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The shell and the worker share the file, so wait on locks instead of failing.
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Debug("SQLite repository opened", "path", dbPath)
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert stores one row and returns its id.
func (r *SQLiteRepository) Insert(ctx context.Context, table ports.Table, values []any) (int64, error) {
	s, err := schemaFor(table)
	if err != nil {
		return 0, err
	}
	if len(values) != len(s.columns) {
		return 0, fmt.Errorf("table %s expects %d values, got %d", table, len(s.columns), len(values))
	}

	args := make([]any, 0, len(values)+1)
	for _, v := range values {
		args = append(args, core.FormatCell(v))
	}
	args = append(args, r.now().UnixMilli())

	query := fmt.Sprintf("INSERT INTO %s (%s, created_at) VALUES (%s?)",
		s.name, strings.Join(s.columns, ", "), strings.Repeat("?, ", len(s.columns)))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", s.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Row saved to SQLite", "table", table, "id", id)
	return id, nil
}

// AppendRow implements sheets.RowAppender. The row reference is the row id.
func (r *SQLiteRepository) AppendRow(ctx context.Context, table ports.Table, values []any) (string, error) {
	id, err := r.Insert(ctx, table, values)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// GetAllRecords implements sheets.RecordReader, in insertion order.
func (r *SQLiteRepository) GetAllRecords(ctx context.Context, table ports.Table) ([]core.Record, error) {
	s, err := schemaFor(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(s.columns, ", "), s.name)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.name, err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows, table)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.name, err)
	}
	return out, nil
}

// GetRow returns one row by id, for the sync worker.
func (r *SQLiteRepository) GetRow(ctx context.Context, table ports.Table, id int64) (core.Record, error) {
	s, err := schemaFor(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(s.columns, ", "), s.name)
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get %s row %d: %w", s.name, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %s row %d: %w", s.name, id, err)
		}
		return nil, fmt.Errorf("%s row %d: %w", s.name, id, ErrRowNotFound)
	}
	return scanRecord(rows, table)
}

func scanRecord(rows *sql.Rows, table ports.Table) (core.Record, error) {
	cols := table.Columns()
	cells := make([]string, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan %s row: %w", table, err)
	}
	rec := make(core.Record, len(cols))
	for i, c := range cols {
		rec[c] = cells[i]
	}
	return rec, nil
}

// PendingRows returns up to limit unsynced rows across all tables, oldest first.
// Rows that failed MaxSyncAttempts times are left alone.
func (r *SQLiteRepository) PendingRows(ctx context.Context, limit int) ([]PendingRow, error) {
	if limit <= 0 {
		return nil, nil
	}
	var parts []string
	var args []any
	for _, table := range ports.Tables {
		s := schemas[table]
		parts = append(parts, fmt.Sprintf(
			"SELECT '%s' AS tbl, id, sync_attempts, created_at FROM %s WHERE sync_status IN (?, ?) AND sync_attempts < ?",
			table, s.name))
		args = append(args, SyncPending, SyncError, MaxSyncAttempts)
	}
	query := strings.Join(parts, " UNION ALL ") + " ORDER BY created_at, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get pending rows: %w", err)
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var (
			tbl       string
			p         PendingRow
			createdAt int64
		)
		if err := rows.Scan(&tbl, &p.ID, &p.Attempts, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		p.Table = ports.Table(tbl)
		p.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return out, nil
}

// SyncStatus reports the sync state of one row.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, table ports.Table, id int64) (string, error) {
	s, err := schemaFor(table)
	if err != nil {
		return "", err
	}
	var status string
	err = r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT sync_status FROM %s WHERE id = ?", s.name), id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s row %d: %w", s.name, id, ErrRowNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

// MarkSynced marks a row as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, table ports.Table, id int64) error {
	s, err := schemaFor(table)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET sync_status = ?, sync_error = NULL, synced_at = ? WHERE id = ?", s.name)
	if _, err := r.db.ExecContext(ctx, query, SyncSynced, r.now().UnixMilli(), id); err != nil {
		return fmt.Errorf("mark row synced: %w", err)
	}

	slog.InfoContext(ctx, "Row marked as synced", "table", table, "id", id)
	return nil
}

// MarkSyncError records a failed attempt for a row
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, table ports.Table, id int64, cause error) error {
	s, err := schemaFor(table)
	if err != nil {
		return err
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	query := fmt.Sprintf("UPDATE %s SET sync_status = ?, sync_error = ?, sync_attempts = sync_attempts + 1 WHERE id = ?", s.name)
	if _, err := r.db.ExecContext(ctx, query, SyncError, msg, id); err != nil {
		return fmt.Errorf("mark row sync error: %w", err)
	}

	slog.WarnContext(ctx, "Row marked with sync error", "table", table, "id", id, "error", msg)
	return nil
}
