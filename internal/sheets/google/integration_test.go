//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
)

// Integration tests require a real spreadsheet with expenses_tracker, budget
// and savings worksheets. Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_GoogleSheetsFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := New(ctx, Config{
		SpreadsheetID: spreadsheetID,
		Credentials: Credentials{
			ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
			ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
			OAuthClientJSON:    os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
			OAuthClientFile:    os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
			OAuthTokenJSON:     os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
			OAuthTokenFile:     os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
		},
	})
	if err != nil {
		t.Skipf("credentials not usable, skipping integration test: %v", err)
	}

	before, err := client.GetAllRecords(ctx, ports.TableExpenses)
	if err != nil {
		t.Fatalf("read expenses: %v", err)
	}

	e, err := core.NewExpense(core.DateOf(time.Now()).String(), "integration test", "0.01", core.Misc)
	if err != nil {
		t.Fatalf("new expense: %v", err)
	}
	ref, err := client.AppendRow(ctx, ports.TableExpenses, e.Row())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	t.Logf("appended %s", ref)

	after, err := client.GetAllRecords(ctx, ports.TableExpenses)
	if err != nil {
		t.Fatalf("read expenses: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d rows, got %d", len(before)+1, len(after))
	}
	got, err := core.ExpenseFromRecord(after[len(after)-1])
	if err != nil {
		t.Fatalf("decode last row: %v", err)
	}
	if got.Name != e.Name || !got.Amount.Equal(e.Amount) || got.Category != e.Category {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
