package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
)

// Store is an in-process RecordStore. Rows are kept as text, the same way a
// spreadsheet hands them back.
type Store struct {
	mu   sync.Mutex
	rows map[ports.Table][]core.Record
	// Fail, when set, makes every call return it. Used to simulate an outage.
	Fail error
}

var _ ports.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{rows: make(map[ports.Table][]core.Record)}
}

// NewFromFiles seeds the store from <base>/<table>.csv files with a header row.
// Missing files leave the table empty.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	for _, table := range ports.Tables {
		recs, err := readCSV(filepath.Join(base, string(table)+".csv"))
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", table, err)
		}
		s.rows[table] = recs
	}
	return s, nil
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Store) AppendRow(_ context.Context, table ports.Table, values []any) (string, error) {
	if !table.Valid() {
		return "", fmt.Errorf("unknown table %q", table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return "", s.Fail
	}
	s.rows[table] = append(s.rows[table], core.NewRecord(table.Columns(), values))
	return fmt.Sprintf("mem:%s:%d", table, len(s.rows[table])), nil
}

// GetAllRecords returns copies so callers cannot mutate stored rows.
func (s *Store) GetAllRecords(_ context.Context, table ports.Table) ([]core.Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]core.Record, 0, len(s.rows[table]))
	for _, r := range s.rows[table] {
		c := make(core.Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		out = append(out, c)
	}
	return out, nil
}

func readCSV(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	lines, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	header := lines[0]
	var out []core.Record
	for _, line := range lines[1:] {
		values := make([]any, len(line))
		for i, v := range line {
			values[i] = v
		}
		out = append(out, core.NewRecord(header, values))
	}
	return out, nil
}
