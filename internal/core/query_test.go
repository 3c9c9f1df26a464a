package core

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func exp(date, name, amount string, c Category) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{Date: d, Name: name, Amount: decimal.RequireFromString(amount), Category: c}
}

func sampleExpenses() []Expense {
	return []Expense{
		exp("30/06/2024", "Rent", "800", Home),
		exp("01/07/2024", "Lunch", "12.50", Food),
		exp("15/07/2024", "Pharmacy", "20.10", Health),
		exp("31/07/2024", "Dinner", "40", Food),
		exp("01/08/2024", "Laptop", "999.99", Work),
		exp("10/07/2023", "Old lunch", "5", Food),
	}
}

func names(es []Expense) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}
	return out
}

func sameNames(t *testing.T, got []Expense, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestFilterByMonth(t *testing.T) {
	sameNames(t, FilterByMonth(sampleExpenses(), time.July), "Lunch", "Pharmacy", "Dinner", "Old lunch")
	sameNames(t, FilterByMonth(sampleExpenses(), time.December))
}

func TestFilterByMonth_InjectedNow(t *testing.T) {
	now := time.Date(2024, time.August, 20, 18, 30, 0, 0, time.UTC)
	sameNames(t, FilterByMonth(sampleExpenses(), now.Month()), "Laptop")
}

func TestFilterByDay(t *testing.T) {
	now := time.Date(2024, time.July, 1, 23, 59, 0, 0, time.UTC)
	sameNames(t, FilterByDay(sampleExpenses(), DateOf(now)), "Lunch")
	sameNames(t, FilterByDay(sampleExpenses(), NewDate(2024, 7, 2)))
}

func TestFilterByCategory(t *testing.T) {
	sameNames(t, FilterByCategory(sampleExpenses(), Food), "Lunch", "Dinner", "Old lunch")
	sameNames(t, FilterByCategory(sampleExpenses(), Misc))
}

func TestFilterByRange_InclusiveEndpoints(t *testing.T) {
	got, err := FilterByRange(sampleExpenses(), "01/07/2024", "31/07/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameNames(t, got, "Lunch", "Pharmacy", "Dinner")

	got, err = FilterByRange(sampleExpenses(), "15/07/2024", "15/07/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameNames(t, got, "Pharmacy")
}

func TestFilterByRange_Inverted(t *testing.T) {
	got, err := FilterByRange(sampleExpenses(), "31/07/2024", "01/07/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameNames(t, got)
}

func TestFilterByRange_InvalidBoundary(t *testing.T) {
	if _, err := FilterByRange(sampleExpenses(), "1/7/2024", "31/07/2024"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
	if _, err := FilterByRange(sampleExpenses(), "01/07/2024", "32/07/2024"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestSumAmounts(t *testing.T) {
	if !SumAmounts(nil).IsZero() {
		t.Fatalf("empty sum should be zero")
	}
	got := SumAmounts(sampleExpenses())
	if !got.Equal(decimal.RequireFromString("1877.59")) {
		t.Fatalf("got %s", got)
	}
}

func TestSumAmounts_OrderIndependent(t *testing.T) {
	es := sampleExpenses()
	want := SumAmounts(es)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		r.Shuffle(len(es), func(a, b int) { es[a], es[b] = es[b], es[a] })
		if got := SumAmounts(es); !got.Equal(want) {
			t.Fatalf("permutation %d: got %s, want %s", i, got, want)
		}
	}
}

func TestFilterThenSum(t *testing.T) {
	es := sampleExpenses()
	food := SumAmounts(FilterByCategory(es, Food))
	if !food.Equal(decimal.RequireFromString("57.5")) {
		t.Fatalf("food total got %s", food)
	}
	inRange, err := FilterByRange(es, "01/07/2024", "31/07/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	julyFood := SumAmounts(FilterByCategory(inRange, Food))
	if got := FormatCurrency(julyFood); got != "€52.50" {
		t.Fatalf("got %s", got)
	}
}

func TestOverview(t *testing.T) {
	ov := Overview(time.July, sampleExpenses())
	if ov.Month != time.July || !ov.Total.Equal(decimal.RequireFromString("77.6")) {
		t.Fatalf("unexpected overview: %+v", ov)
	}
	if len(ov.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %+v", ov.ByCategory)
	}
	if ov.ByCategory[0].Category != Food || !ov.ByCategory[0].Amount.Equal(decimal.RequireFromString("57.5")) {
		t.Fatalf("unexpected first category: %+v", ov.ByCategory[0])
	}
	if ov.ByCategory[1].Category != Health {
		t.Fatalf("unexpected second category: %+v", ov.ByCategory[1])
	}
}
