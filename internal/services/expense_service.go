package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RangePolicy decides what happens to a date range with a malformed boundary.
type RangePolicy string

const (
	// RangeStrict rejects the range with core.ErrInvalidDateFormat.
	RangeStrict RangePolicy = "strict"
	// RangeLenient treats the range as matching nothing.
	RangeLenient RangePolicy = "lenient"
)

func ParseRangePolicy(s string) (RangePolicy, error) {
	switch RangePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeStrict:
		return RangeStrict, nil
	case RangeLenient:
		return RangeLenient, nil
	default:
		return "", fmt.Errorf("invalid range policy %q (want strict or lenient)", s)
	}
}

// ExpenseServiceConfig holds the knobs of the service
type ExpenseServiceConfig struct {
	// StoreTimeout bounds every store call (default: 15s, 0 disables)
	StoreTimeout time.Duration

	// RangePolicy applies to ExpensesInRange and TotalInRange (default: strict)
	RangePolicy RangePolicy

	// Now is the clock behind "this month" and "today" (default: time.Now)
	Now func() time.Time

	// Logger receives warnings about rows that cannot be decoded (default: slog.Default())
	Logger *slog.Logger
}

// DefaultExpenseServiceConfig returns sensible defaults
func DefaultExpenseServiceConfig() ExpenseServiceConfig {
	return ExpenseServiceConfig{
		StoreTimeout: 15 * time.Second,
		RangePolicy:  RangeStrict,
		Now:          time.Now,
		Logger:       slog.Default(),
	}
}

// ExpenseService binds the pure core to a record store and a clock.
// Every store failure comes back wrapped in core.ErrStoreUnavailable;
// nothing is retried here.
type ExpenseService struct {
	store  ports.RecordStore
	config ExpenseServiceConfig
}

func NewExpenseService(store ports.RecordStore, config ExpenseServiceConfig) *ExpenseService {
	def := DefaultExpenseServiceConfig()
	if config.Now == nil {
		config.Now = def.Now
	}
	if config.Logger == nil {
		config.Logger = def.Logger
	}
	if config.RangePolicy == "" {
		config.RangePolicy = def.RangePolicy
	}
	return &ExpenseService{store: store, config: config}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrStoreUnavailable, op, err)
}

func (s *ExpenseService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.StoreTimeout)
}

func (s *ExpenseService) appendRow(ctx context.Context, table ports.Table, values []any) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ref, err := s.store.AppendRow(ctx, table, values)
	if err != nil {
		return "", storeErr("append "+string(table), err)
	}
	return ref, nil
}

func (s *ExpenseService) records(ctx context.Context, table ports.Table) ([]core.Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	recs, err := s.store.GetAllRecords(ctx, table)
	if err != nil {
		return nil, storeErr("read "+string(table), err)
	}
	return recs, nil
}

// decodeAll decodes every record, skipping and logging the ones that fail.
func decodeAll[T any](ctx context.Context, logger *slog.Logger, table ports.Table, recs []core.Record, decode func(core.Record) (T, error)) []T {
	out := make([]T, 0, len(recs))
	for i, r := range recs {
		v, err := decode(r)
		if err != nil {
			// Row 1 is the header, data starts at row 2
			logger.WarnContext(ctx, "Skipping undecodable row", "table", table, "row", i+2, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// AddExpense validates and appends one expense row.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	ref, err := s.appendRow(ctx, ports.TableExpenses, e.Row())
	if err != nil {
		return "", err
	}
	s.config.Logger.InfoContext(ctx, "Expense added", "ref", ref, "date", e.Date.String(), "category", e.Category.Name())
	return ref, nil
}

// AllExpenses returns every decodable expense in store order.
func (s *ExpenseService) AllExpenses(ctx context.Context) ([]core.Expense, error) {
	recs, err := s.records(ctx, ports.TableExpenses)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, s.config.Logger, ports.TableExpenses, recs, core.ExpenseFromRecord), nil
}

// ExpensesThisMonth matches the current month of any year.
func (s *ExpenseService) ExpensesThisMonth(ctx context.Context) ([]core.Expense, error) {
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterByMonth(all, s.config.Now().Month()), nil
}

func (s *ExpenseService) ExpensesToday(ctx context.Context) ([]core.Expense, error) {
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterByDay(all, core.DateOf(s.config.Now())), nil
}

func (s *ExpenseService) ExpensesByCategory(ctx context.Context, c core.Category) ([]core.Expense, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownCategory, int(c))
	}
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterByCategory(all, c), nil
}

// ExpensesInRange keeps start <= date <= end. Boundaries are checked before
// the store is read.
func (s *ExpenseService) ExpensesInRange(ctx context.Context, start, end string) ([]core.Expense, error) {
	from, to, ok, err := s.parseRange(start, end)
	if err != nil || !ok {
		return nil, err
	}
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterByDateRange(all, from, to), nil
}

// parseRange applies the range policy. ok is false when the range is
// lenient-invalid and matches nothing.
func (s *ExpenseService) parseRange(start, end string) (from, to core.Date, ok bool, err error) {
	from, err = core.ParseDate(start)
	if err == nil {
		to, err = core.ParseDate(end)
	}
	if err != nil {
		if s.config.RangePolicy == RangeLenient {
			return core.Date{}, core.Date{}, false, nil
		}
		return core.Date{}, core.Date{}, false, err
	}
	return from, to, true, nil
}

// Total sums every expense.
func (s *ExpenseService) Total(ctx context.Context) (decimal.Decimal, error) {
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return core.SumAmounts(all), nil
}

func (s *ExpenseService) TotalByCategory(ctx context.Context, c core.Category) (decimal.Decimal, error) {
	matched, err := s.ExpensesByCategory(ctx, c)
	if err != nil {
		return decimal.Zero, err
	}
	return core.SumAmounts(matched), nil
}

func (s *ExpenseService) TotalInRange(ctx context.Context, start, end string) (decimal.Decimal, error) {
	matched, err := s.ExpensesInRange(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return core.SumAmounts(matched), nil
}

// MonthOverview totals one month (any year) overall and per category.
func (s *ExpenseService) MonthOverview(ctx context.Context, month string) (core.MonthOverview, error) {
	code, err := core.NormalizeMonth(month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	all, err := s.AllExpenses(ctx)
	if err != nil {
		return core.MonthOverview{}, err
	}
	n, _ := strconv.Atoi(code)
	return core.Overview(time.Month(n), all), nil
}

// SetBudget appends a budget row. Entries for the same month add up.
func (s *ExpenseService) SetBudget(ctx context.Context, month, amount string) (core.BudgetEntry, error) {
	entry, err := core.NewBudgetEntry(month, amount)
	if err != nil {
		return core.BudgetEntry{}, err
	}
	if _, err := s.appendRow(ctx, ports.TableBudget, entry.Row()); err != nil {
		return core.BudgetEntry{}, err
	}
	s.config.Logger.InfoContext(ctx, "Budget set", "month", entry.Month, "amount", entry.Amount.String())
	return entry, nil
}

func (s *ExpenseService) Budgets(ctx context.Context) ([]core.BudgetEntry, error) {
	recs, err := s.records(ctx, ports.TableBudget)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, s.config.Logger, ports.TableBudget, recs, core.BudgetEntryFromRecord), nil
}

// CalculateSavings compares the month's budget with its spend and appends a
// savings row when the month closed strictly under budget.
func (s *ExpenseService) CalculateSavings(ctx context.Context, month string) (core.SavingsReport, error) {
	code, err := core.NormalizeMonth(month)
	if err != nil {
		return core.SavingsReport{}, err
	}

	var (
		budgets  []core.BudgetEntry
		expenses []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.Budgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.AllExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.SavingsReport{}, err
	}

	report, err := core.CalculateSavings(code, budgets, expenses)
	if err != nil {
		return core.SavingsReport{}, err
	}

	if entry, ok := report.Entry(); ok {
		if _, err := s.appendRow(ctx, ports.TableSavings, entry.Row()); err != nil {
			return core.SavingsReport{}, err
		}
	}
	s.config.Logger.InfoContext(ctx, "Savings calculated",
		"month", report.Month,
		"status", report.Status.String(),
		"unspent", report.Unspent.String())
	return report, nil
}

// Savings lists the persisted savings rows.
func (s *ExpenseService) Savings(ctx context.Context) ([]core.SavingsEntry, error) {
	recs, err := s.records(ctx, ports.TableSavings)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, s.config.Logger, ports.TableSavings, recs, core.SavingsEntryFromRecord), nil
}

// Close closes the store when it holds resources.
func (s *ExpenseService) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
