package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one stored row keyed by its column header.
type Record map[string]string

// Column headers shared by every store.
const (
	ColDate     = "Date"
	ColName     = "Name"
	ColAmount   = "Amount"
	ColCategory = "Category"
	ColMonth    = "Month"
)

var (
	ExpenseColumns = []string{ColDate, ColName, ColAmount, ColCategory}
	BudgetColumns  = []string{ColMonth, ColAmount}
	SavingsColumns = []string{ColMonth, ColAmount}
)

// Row returns the ordered cell values appended for an expense. Amounts stay
// decimal.Decimal so text stores keep them exact.
func (e Expense) Row() []any {
	return []any{e.Date.String(), e.Name, e.Amount, e.Category.Label()}
}

func (b BudgetEntry) Row() []any {
	return []any{b.Month, b.Amount}
}

func (s SavingsEntry) Row() []any {
	return []any{s.Month, s.Amount}
}

// ExpenseFromRecord decodes and validates an expenses row.
func ExpenseFromRecord(r Record) (Expense, error) {
	d, err := ParseDate(strings.TrimSpace(r[ColDate]))
	if err != nil {
		return Expense{}, err
	}
	amt, err := parseDecimal(r[ColAmount])
	if err != nil {
		return Expense{}, err
	}
	cat, err := CategoryFromLabel(r[ColCategory])
	if err != nil {
		return Expense{}, err
	}
	e := Expense{Date: d, Name: strings.TrimSpace(r[ColName]), Amount: amt, Category: cat}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// BudgetEntryFromRecord decodes a budget row. The month may come back from the
// sheet as a bare number ("7"), so it is normalized.
func BudgetEntryFromRecord(r Record) (BudgetEntry, error) {
	m, amt, err := monthAmount(r)
	if err != nil {
		return BudgetEntry{}, err
	}
	return BudgetEntry{Month: m, Amount: amt}, nil
}

func SavingsEntryFromRecord(r Record) (SavingsEntry, error) {
	m, amt, err := monthAmount(r)
	if err != nil {
		return SavingsEntry{}, err
	}
	return SavingsEntry{Month: m, Amount: amt}, nil
}

func monthAmount(r Record) (string, decimal.Decimal, error) {
	m, err := NormalizeMonth(strings.TrimSpace(r[ColMonth]))
	if err != nil {
		return "", decimal.Zero, err
	}
	amt, err := parseDecimal(r[ColAmount])
	if err != nil {
		return "", decimal.Zero, err
	}
	return m, amt, nil
}

// FormatCell renders a cell value the way stores keep it as text.
// Floats never use exponent notation so amounts decode back exactly.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// NewRecord zips column headers with cell values. Missing cells are empty.
func NewRecord(columns []string, values []any) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		if i < len(values) {
			rec[col] = strings.TrimSpace(FormatCell(values[i]))
		} else {
			rec[col] = ""
		}
	}
	return rec
}
