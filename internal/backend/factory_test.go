package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/internal/config"
	ports "expensetracker/internal/sheets"
	"expensetracker/internal/sheets/memory"
)

func TestCreateBackend_Memory(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := res.Backend.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Backend)
	}
	if res.Cleanup != nil {
		t.Fatal("memory backend needs no cleanup")
	}
}

func TestCreateBackend_MemorySeeded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "budget.csv"), []byte("Month,Amount\n07,500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedDirectory: dir})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	recs, err := res.Backend.GetAllRecords(context.Background(), ports.TableBudget)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected seeded budget row, got %v err=%v", recs, err)
	}
}

func TestCreateBackend_SQLiteWithoutAMQP(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "db", "expenses.db"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	}()

	ref, err := res.Backend.AppendRow(context.Background(), ports.TableSavings, []any{"07", 12.0})
	if err != nil || ref != "1" {
		t.Fatalf("append: ref=%q err=%v", ref, err)
	}
}

func TestCreateBackend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"invalid type", Config{Type: "postgres"}, "invalid backend type"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path is required"},
		{"sheets without id", Config{Type: SheetsBackend}, "Google Spreadsheet ID is required"},
		{"sheets without credentials", func() Config {
			c := Config{Type: SheetsBackend}
			c.Sheets.SpreadsheetID = "abc"
			return c
		}(), "missing credentials"},
		{"missing seed dir", Config{Type: MemoryBackend, SeedDirectory: "/non/existent"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFactory(nil).CreateBackend(context.Background(), tt.config)
			if tt.wantErr == "" {
				// Missing seed files simply leave tables empty
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := &config.Config{
		DataBackend:              "sheets",
		GoogleSpreadsheetID:      "sheet-id",
		GoogleExpensesSheet:      "Spese",
		GoogleServiceAccountFile: "/etc/sa.json",
		SQLiteDBPath:             "./data/x.db",
		MemorySeedDir:            "./seed",
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != SheetsBackend || cfg.Sheets.SpreadsheetID != "sheet-id" || cfg.Sheets.ExpensesSheet != "Spese" ||
		cfg.Sheets.Credentials.ServiceAccountFile != "/etc/sa.json" || cfg.SQLiteDBPath != "./data/x.db" || cfg.SeedDirectory != "./seed" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}

	app.DataBackend = "nope"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for invalid backend")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "memory,sheets,sqlite" {
		t.Fatalf("unexpected types %q", got)
	}
}
