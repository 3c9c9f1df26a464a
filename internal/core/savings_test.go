package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func budget(month, amount string) BudgetEntry {
	return BudgetEntry{Month: month, Amount: decimal.RequireFromString(amount)}
}

func TestCalculateSavings_UnderBudget(t *testing.T) {
	r, err := CalculateSavings("07", []BudgetEntry{budget("07", "500")}, []Expense{exp("10/07/2024", "x", "150", Food)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.Savings()
	if !ok || !got.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected savings 350, got %s (ok=%v)", got, ok)
	}
	if r.Status != Saved || !r.Overspend().IsZero() {
		t.Fatalf("unexpected report: %+v", r)
	}
	entry, ok := r.Entry()
	if !ok || entry.Month != "07" || !entry.Amount.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("unexpected entry: %+v (ok=%v)", entry, ok)
	}
}

func TestCalculateSavings_OverBudget(t *testing.T) {
	r, err := CalculateSavings("07", []BudgetEntry{budget("07", "100")}, []Expense{exp("10/07/2024", "x", "150", Food)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Savings(); ok {
		t.Fatalf("expected no savings value")
	}
	if r.Status != OverBudget || !r.Overspend().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected overspend 50, got %+v", r)
	}
	if _, ok := r.Entry(); ok {
		t.Fatalf("over budget must not produce an entry")
	}
}

func TestCalculateSavings_ExactlyZeroIsOverBudget(t *testing.T) {
	r, err := CalculateSavings("7", []BudgetEntry{budget("07", "150")}, []Expense{exp("10/07/2024", "x", "150", Food)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != OverBudget || !r.Overspend().IsZero() {
		t.Fatalf("unexpected report: %+v", r)
	}
	if _, ok := r.Entry(); ok {
		t.Fatalf("break-even must not produce an entry")
	}
}

func TestCalculateSavings_AdditiveBudgets(t *testing.T) {
	budgets := []BudgetEntry{budget("07", "100"), budget("7", "100"), budget("08", "1000")}
	expenses := []Expense{
		exp("01/07/2024", "a", "20", Food),
		exp("31/07/2024", "b", "30", Home),
		exp("01/08/2024", "c", "500", Work),
	}
	r, err := CalculateSavings("07", budgets, expenses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.BudgetTotal.Equal(decimal.NewFromInt(200)) || !r.ExpenseTotal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected totals: %+v", r)
	}
	if got, _ := r.Savings(); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", got)
	}
}

func TestCalculateSavings_NoBudget(t *testing.T) {
	r, err := CalculateSavings("03", nil, []Expense{exp("01/03/2024", "a", "20", Food)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != OverBudget || !r.Overspend().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestCalculateSavings_InvalidMonth(t *testing.T) {
	if _, err := CalculateSavings("13", nil, nil); !errors.Is(err, ErrInvalidMonthFormat) {
		t.Fatalf("expected ErrInvalidMonthFormat, got %v", err)
	}
}
