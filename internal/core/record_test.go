package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExpenseRecordRoundTrip(t *testing.T) {
	e := exp("03/07/2024", "Coffee beans", "18.90", Food)
	rec := NewRecord(ExpenseColumns, e.Row())
	if rec[ColDate] != "03/07/2024" || rec[ColAmount] != "18.9" || rec[ColCategory] != "🍕 Food" {
		t.Fatalf("unexpected record: %v", rec)
	}
	got, err := ExpenseFromRecord(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Date.Equal(e.Date.Time) || got.Name != e.Name || !got.Amount.Equal(e.Amount) || got.Category != e.Category {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, e)
	}
}

func TestExpenseFromRecord_Errors(t *testing.T) {
	cases := []struct {
		rec  Record
		want error
	}{
		{Record{ColDate: "2024-07-01", ColName: "a", ColAmount: "1", ColCategory: "Food"}, ErrInvalidDateFormat},
		{Record{ColDate: "01/07/2024", ColName: "a", ColAmount: "x", ColCategory: "Food"}, ErrNonNumericAmount},
		{Record{ColDate: "01/07/2024", ColName: "a", ColAmount: "0", ColCategory: "Food"}, ErrNonPositiveAmount},
		{Record{ColDate: "01/07/2024", ColName: "a", ColAmount: "1", ColCategory: "Cars"}, ErrUnknownCategory},
		{Record{ColDate: "01/07/2024", ColName: "", ColAmount: "1", ColCategory: "Food"}, ErrEmptyName},
	}
	for i, tc := range cases {
		if _, err := ExpenseFromRecord(tc.rec); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestBudgetEntryFromRecord(t *testing.T) {
	b, err := BudgetEntryFromRecord(Record{ColMonth: "7", ColAmount: "500.5"})
	if err != nil || b.Month != "07" || !b.Amount.Equal(decimal.RequireFromString("500.5")) {
		t.Fatalf("unexpected entry %+v (err=%v)", b, err)
	}
	if _, err := BudgetEntryFromRecord(Record{ColMonth: "July", ColAmount: "1"}); !errors.Is(err, ErrInvalidMonthFormat) {
		t.Fatalf("expected ErrInvalidMonthFormat, got %v", err)
	}
}

func TestSavingsEntryFromRecord(t *testing.T) {
	s, err := SavingsEntryFromRecord(NewRecord(SavingsColumns, SavingsEntry{Month: "11", Amount: decimal.NewFromInt(42)}.Row()))
	if err != nil || s.Month != "11" || !s.Amount.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected entry %+v (err=%v)", s, err)
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		in  any
		out string
	}{
		{nil, ""},
		{"x", "x"},
		{1000000.0, "1000000"},
		{12.5, "12.5"},
		{int64(3), "3"},
		{decimal.RequireFromString("1.10"), "1.1"},
	}
	for _, tc := range cases {
		if got := FormatCell(tc.in); got != tc.out {
			t.Fatalf("FormatCell(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestRecordKeepsAmountPrecision(t *testing.T) {
	e := exp("03/07/2024", "Car", "12345678901234567.89", Misc)
	rec := NewRecord(ExpenseColumns, e.Row())
	if rec[ColAmount] != "12345678901234567.89" {
		t.Fatalf("amount cell = %q", rec[ColAmount])
	}
	got, err := ExpenseFromRecord(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Amount.Equal(e.Amount) {
		t.Fatalf("amount %s, want %s", got.Amount, e.Amount)
	}

	b := BudgetEntry{Month: "07", Amount: decimal.RequireFromString("0.123456789")}
	bb, err := BudgetEntryFromRecord(NewRecord(BudgetColumns, b.Row()))
	if err != nil || !bb.Amount.Equal(b.Amount) {
		t.Fatalf("budget round trip: %+v err=%v", bb, err)
	}
}
