package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filters and SumAmounts are meant to be chained: filter first, then sum.
// None of them read the clock; "this month" and "today" come from the caller.

// FilterByMonth keeps expenses whose month matches, in any year.
func FilterByMonth(expenses []Expense, month time.Month) []Expense {
	return filter(expenses, func(e Expense) bool {
		return e.Date.Month() == month
	})
}

// FilterByDay keeps expenses dated exactly on day.
func FilterByDay(expenses []Expense, day Date) []Expense {
	return filter(expenses, func(e Expense) bool {
		return e.Date.Equal(day.Time)
	})
}

// FilterByCategory matches on the category's canonical label.
func FilterByCategory(expenses []Expense, category Category) []Expense {
	label := category.Label()
	return filter(expenses, func(e Expense) bool {
		return e.Category.Label() == label
	})
}

// FilterByRange parses both boundaries and keeps start <= date <= end.
func FilterByRange(expenses []Expense, start, end string) ([]Expense, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	return FilterByDateRange(expenses, from, to), nil
}

// FilterByDateRange is inclusive at both ends. An inverted range matches nothing.
func FilterByDateRange(expenses []Expense, start, end Date) []Expense {
	return filter(expenses, func(e Expense) bool {
		return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
	})
}

// SumAmounts adds up amounts exactly; an empty set sums to zero.
func SumAmounts(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func filter(expenses []Expense, keep func(Expense) bool) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
