package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IsValidDate reports whether s is a calendar-valid DD/MM/YYYY date.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses s as DD/MM/YYYY. Day and month must be two digits, the year
// four, and the day must exist in that month (31/04 and 29/02/2023 fail).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return Date{Time: t}, nil
}

// IsValidMonth reports whether s is a one or two digit month number, 1-12.
func IsValidMonth(s string) bool {
	_, err := NormalizeMonth(s)
	return err == nil
}

// NormalizeMonth validates s and returns it zero-padded ("7" -> "07").
func NormalizeMonth(s string) (string, error) {
	if len(s) == 0 || len(s) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
		}
	}
	n, _ := strconv.Atoi(s)
	if n < 1 || n > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	return monthCode(time.Month(n)), nil
}

// MonthName returns the English month name for a valid month code.
func MonthName(code string) string {
	normalized, err := NormalizeMonth(code)
	if err != nil {
		return code
	}
	n, _ := strconv.Atoi(normalized)
	return time.Month(n).String()
}

func monthCode(m time.Month) string {
	return fmt.Sprintf("%02d", int(m))
}

// SelectCategory maps a 1-based menu choice to a category.
func SelectCategory(choice string) (Category, error) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, choice)
	}
	if n < 1 || n > len(Categories) {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrCategoryIndexOutOfRange, n, len(Categories))
	}
	return Categories[n-1], nil
}

// NewExpense builds a validated Expense from raw user input.
func NewExpense(date, name, amount string, category Category) (Expense, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, err
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}
	e := Expense{
		Date:     d,
		Name:     strings.TrimSpace(name),
		Amount:   amt,
		Category: category,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// NewBudgetEntry builds a validated BudgetEntry with a normalized month.
func NewBudgetEntry(month, amount string) (BudgetEntry, error) {
	m, err := NormalizeMonth(month)
	if err != nil {
		return BudgetEntry{}, err
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return BudgetEntry{}, err
	}
	return BudgetEntry{Month: m, Amount: amt}, nil
}
