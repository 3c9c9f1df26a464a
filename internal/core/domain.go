package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted textual form of a date: DD/MM/YYYY.
const DateLayout = "02/01/2006"

const maxNameLength = 200

type (
	// Date is a calendar day with no time component, always in UTC.
	Date struct {
		time.Time
	}

	// Expense is one logged expense. Values are immutable once built.
	Expense struct {
		Date     Date
		Name     string
		Amount   decimal.Decimal
		Category Category
	}

	// BudgetEntry is one budget row. Several entries for the same month add up.
	BudgetEntry struct {
		Month  string // zero-padded, "01".."12"
		Amount decimal.Decimal
	}

	// SavingsEntry is a derived row: positive Amount means the month closed under budget.
	SavingsEntry struct {
		Month  string
		Amount decimal.Decimal
	}
)

var (
	ErrInvalidDateFormat       = errors.New("invalid date format, expected DD/MM/YYYY")
	ErrInvalidMonthFormat      = errors.New("invalid month, expected a number between 1 and 12")
	ErrNonNumericAmount        = errors.New("amount is not a number")
	ErrNonPositiveAmount       = errors.New("amount must be positive")
	ErrNotANumber              = errors.New("not a number")
	ErrCategoryIndexOutOfRange = errors.New("category index out of range")
	ErrUnknownCategory         = errors.New("unknown category")
	ErrEmptyName               = errors.New("empty name")
	ErrNameTooLong             = errors.New("name too long (max 200 characters)")

	// ErrStoreUnavailable marks a failed or timed out record store call.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String renders the date as DD/MM/YYYY.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthCode returns the zero-padded month, e.g. "07".
func (d Date) MonthCode() string {
	return monthCode(d.Month())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDateFormat
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !e.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}

// String mirrors the confirmation shown when an expense is saved.
func (e Expense) String() string {
	return "Expense: On " + e.Date.String() + " you have spent " +
		FormatCurrency(e.Amount) + " for " + e.Name
}

func (b BudgetEntry) Validate() error {
	if _, err := NormalizeMonth(b.Month); err != nil {
		return err
	}
	if !b.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}
