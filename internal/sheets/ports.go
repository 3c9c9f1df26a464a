package sheets

import (
	"context"
	"expensetracker/internal/core"
)

// Table names one of the three logical tables every store exposes.
type Table string

const (
	TableExpenses Table = "expenses"
	TableBudget   Table = "budget"
	TableSavings  Table = "savings"
)

// Tables lists every table in a stable order.
var Tables = []Table{TableExpenses, TableBudget, TableSavings}

// Columns returns the header row of the table, or nil for an unknown table.
func (t Table) Columns() []string {
	switch t {
	case TableExpenses:
		return core.ExpenseColumns
	case TableBudget:
		return core.BudgetColumns
	case TableSavings:
		return core.SavingsColumns
	default:
		return nil
	}
}

func (t Table) Valid() bool {
	return t.Columns() != nil
}

// Ports for outbound adapters.
type (
	// RowAppender appends one row of ordered cell values. Rows are never updated.
	RowAppender interface {
		AppendRow(ctx context.Context, table Table, values []any) (rowRef string, err error)
	}

	// RecordReader returns every data row of a table keyed by column header,
	// in insertion order.
	RecordReader interface {
		GetAllRecords(ctx context.Context, table Table) ([]core.Record, error)
	}

	RecordStore interface {
		RowAppender
		RecordReader
	}
)
