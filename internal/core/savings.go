package core

import (
	"github.com/shopspring/decimal"
)

type SavingsStatus int

const (
	// Saved means the month closed strictly under budget.
	Saved SavingsStatus = iota + 1
	// OverBudget covers both overspending and breaking exactly even.
	OverBudget
)

func (s SavingsStatus) String() string {
	switch s {
	case Saved:
		return "saved"
	case OverBudget:
		return "over_budget"
	default:
		return "unknown"
	}
}

// SavingsReport is the outcome of comparing a month's budget with its spend.
type SavingsReport struct {
	Month        string
	BudgetTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Unspent      decimal.Decimal // BudgetTotal - ExpenseTotal, signed
	Status       SavingsStatus
}

// Savings returns the saved amount; ok is false when nothing was saved.
func (r SavingsReport) Savings() (amount decimal.Decimal, ok bool) {
	if r.Status != Saved {
		return decimal.Zero, false
	}
	return r.Unspent, true
}

// Overspend is how far spending went past the budget. Zero when Saved.
func (r SavingsReport) Overspend() decimal.Decimal {
	if r.Status == Saved {
		return decimal.Zero
	}
	return r.Unspent.Abs()
}

// Entry returns the row to persist. Only Saved reports produce one.
func (r SavingsReport) Entry() (SavingsEntry, bool) {
	amount, ok := r.Savings()
	if !ok {
		return SavingsEntry{}, false
	}
	return SavingsEntry{Month: r.Month, Amount: amount}, true
}

// CalculateSavings compares the summed budget entries of month with the
// summed expenses dated in that month (any year). Budget entries are
// additive: two entries of 100 for "07" make a 200 budget.
func CalculateSavings(month string, budgets []BudgetEntry, expenses []Expense) (SavingsReport, error) {
	code, err := NormalizeMonth(month)
	if err != nil {
		return SavingsReport{}, err
	}

	budgetTotal := decimal.Zero
	for _, b := range budgets {
		m, err := NormalizeMonth(b.Month)
		if err != nil || m != code {
			continue
		}
		budgetTotal = budgetTotal.Add(b.Amount)
	}

	expenseTotal := decimal.Zero
	for _, e := range expenses {
		if e.Date.MonthCode() == code {
			expenseTotal = expenseTotal.Add(e.Amount)
		}
	}

	report := SavingsReport{
		Month:        code,
		BudgetTotal:  budgetTotal,
		ExpenseTotal: expenseTotal,
		Unspent:      budgetTotal.Sub(expenseTotal),
		Status:       OverBudget,
	}
	if report.Unspent.IsPositive() {
		report.Status = Saved
	}
	return report, nil
}
