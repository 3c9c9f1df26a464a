package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MonthOverview is a compact summary for one month.
type MonthOverview struct {
	Month      time.Month
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// SummarizeByCategory totals expenses per category, in menu order.
// Categories with no expenses are left out.
func SummarizeByCategory(expenses []Expense) []CategoryAmount {
	var out []CategoryAmount
	for _, c := range Categories {
		matched := FilterByCategory(expenses, c)
		if len(matched) == 0 {
			continue
		}
		out = append(out, CategoryAmount{Category: c, Amount: SumAmounts(matched)})
	}
	return out
}

// Overview builds the month summary from the full expense list.
func Overview(month time.Month, expenses []Expense) MonthOverview {
	inMonth := FilterByMonth(expenses, month)
	return MonthOverview{
		Month:      month,
		Total:      SumAmounts(inMonth),
		ByCategory: SummarizeByCategory(inMonth),
	}
}
