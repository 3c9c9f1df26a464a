// Package shell is the interactive, line oriented front end of the tracker.
// It prompts on an io.Writer, reads answers from an io.Reader and delegates
// every operation to the expense service.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Service is the part of the expense service the shell drives.
type Service interface {
	AddExpense(ctx context.Context, e core.Expense) (string, error)
	AllExpenses(ctx context.Context) ([]core.Expense, error)
	ExpensesThisMonth(ctx context.Context) ([]core.Expense, error)
	ExpensesToday(ctx context.Context) ([]core.Expense, error)
	ExpensesByCategory(ctx context.Context, c core.Category) ([]core.Expense, error)
	ExpensesInRange(ctx context.Context, start, end string) ([]core.Expense, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	TotalByCategory(ctx context.Context, c core.Category) (decimal.Decimal, error)
	TotalInRange(ctx context.Context, start, end string) (decimal.Decimal, error)
	MonthOverview(ctx context.Context, month string) (core.MonthOverview, error)
	SetBudget(ctx context.Context, month, amount string) (core.BudgetEntry, error)
	CalculateSavings(ctx context.Context, month string) (core.SavingsReport, error)
}

// Config holds the display settings of the shell
type Config struct {
	// CurrencySymbol prefixes every amount (default: €)
	CurrencySymbol string
	// Logger receives store failures; the user only sees a short message
	Logger *slog.Logger
}

type Shell struct {
	svc      Service
	in       io.Reader
	out      io.Writer
	st       styles
	currency string
	logger   *slog.Logger

	lines <-chan string
}

func New(svc Service, in io.Reader, out io.Writer, cfg Config) *Shell {
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = core.DefaultCurrencySymbol
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Shell{
		svc:      svc,
		in:       in,
		out:      out,
		st:       newStyles(out),
		currency: cfg.CurrencySymbol,
		logger:   cfg.Logger,
	}
}

// Run shows the main menu until the user exits or the input ends, both of
// which return nil. A cancelled ctx returns ctx.Err().
func (s *Shell) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(s.in, done)

	s.println(s.st.title.Render("Welcome to the Ultimate Expense Tracker!"))
	for {
		s.println("")
		s.println(s.st.heading.Render("What do you want to do today?"))
		s.options(
			"0. Instructions",
			"1. Add a new expense",
			"2. View expenses",
			"3. Calculate total expenses",
			"4. Set budget",
			"5. Calculate savings",
			"6. Exit",
		)
		choice, err := s.prompt(ctx, "Enter your choice:")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "0":
			s.instructions()
			continue
		case "1":
			err = s.addExpense(ctx)
		case "2":
			err = s.viewExpenses(ctx)
		case "3":
			err = s.totals(ctx)
		case "4":
			err = s.setBudget(ctx)
		case "5":
			err = s.savings(ctx)
		case "6":
			s.println(s.st.title.Render("Thank you for using the Ultimate Expense Tracker! Have a nice day!"))
			return nil
		default:
			s.println(s.st.failure.Render("Invalid option. Please try again."))
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return s.finish(err)
			}
			s.report(ctx, err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// report shows an operation failure and leaves the shell at the main menu.
func (s *Shell) report(ctx context.Context, err error) {
	if errors.Is(err, core.ErrStoreUnavailable) {
		s.logger.ErrorContext(ctx, "Record store call failed", "error", err)
		s.println(s.st.failure.Render("Could not reach your expense records. Nothing was changed, please try again later."))
		return
	}
	s.logger.WarnContext(ctx, "Operation failed", "error", err)
	s.println(s.st.failure.Render("Error: " + err.Error()))
}

func (s *Shell) instructions() {
	s.println(s.st.heading.Render("How to use the tracker"))
	s.println("1. Add a new expense: enter the date, name, amount and category of your expense.")
	s.println("2. View expenses: review every expense recorded, or filter them by month, day, category or date range.")
	s.println("3. Calculate total expenses: check how much you spent overall, for a category, within a date range or in a month.")
	s.println("4. Set budget: insert your spending goal for a month and challenge yourself.")
	s.println("5. Calculate savings: compare the month's spending with its budget and record what is left over.")
}

func (s *Shell) addExpense(ctx context.Context) error {
	date, err := s.askDate(ctx, "Please enter your expense date (DD/MM/YYYY):")
	if err != nil {
		return err
	}
	name, err := s.askName(ctx)
	if err != nil {
		return err
	}
	amount, err := s.askAmount(ctx, "Please enter your expense amount:")
	if err != nil {
		return err
	}
	category, err := s.askCategory(ctx)
	if err != nil {
		return err
	}

	expense, err := core.NewExpense(date, name, amount, category)
	if err != nil {
		return err
	}
	s.println("Saving expense...")
	s.println(fmt.Sprintf("On %s you have spent %s for %s (%s)",
		expense.Date, s.money(expense.Amount), expense.Name, expense.Category.Label()))
	if _, err := s.svc.AddExpense(ctx, expense); err != nil {
		return err
	}
	s.println(s.st.success.Render("Expense saved successfully."))
	return nil
}

func (s *Shell) viewExpenses(ctx context.Context) error {
	for {
		s.println("")
		s.println(s.st.heading.Render("What expenses would you like to view?"))
		s.options(
			"1. All expenses logged",
			"2. This month's expenses",
			"3. Today's expenses",
			"4. Expenses by category",
			"5. Expenses within a date range",
			"6. Go back to the main menu",
		)
		choice, err := s.prompt(ctx, "Enter your choice:")
		if err != nil {
			return err
		}

		var expenses []core.Expense
		switch choice {
		case "1":
			expenses, err = s.svc.AllExpenses(ctx)
		case "2":
			expenses, err = s.svc.ExpensesThisMonth(ctx)
		case "3":
			expenses, err = s.svc.ExpensesToday(ctx)
		case "4":
			var c core.Category
			if c, err = s.askCategory(ctx); err != nil {
				return err
			}
			expenses, err = s.svc.ExpensesByCategory(ctx, c)
		case "5":
			var start, end string
			if start, end, err = s.askRange(ctx); err != nil {
				return err
			}
			expenses, err = s.svc.ExpensesInRange(ctx, start, end)
		case "6":
			return nil
		default:
			s.println(s.st.failure.Render("Invalid choice. Please try again."))
			continue
		}
		if err != nil {
			return err
		}
		s.printExpenses(expenses)
	}
}

func (s *Shell) printExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		s.println(s.st.warning.Render("No expenses found."))
		return
	}
	for _, e := range expenses {
		s.println(fmt.Sprintf("%s %s, %s %s, %s %s, %s %s",
			s.st.label.Render("Date:"), e.Date,
			s.st.label.Render("Name:"), e.Name,
			s.st.label.Render("Amount:"), s.money(e.Amount),
			s.st.label.Render("Category:"), e.Category.Label()))
	}
}

func (s *Shell) totals(ctx context.Context) error {
	s.println("")
	s.println(s.st.heading.Render("Choose an option to calculate the total expenses:"))
	s.options(
		"1. Total expenses for all records",
		"2. Total expenses for a specific category",
		"3. Total expenses within a date range",
		"4. Monthly breakdown by category",
		"5. Go back to the main menu",
	)
	choice, err := s.prompt(ctx, "Enter your choice:")
	if err != nil {
		return err
	}

	var total decimal.Decimal
	switch choice {
	case "1":
		total, err = s.svc.Total(ctx)
	case "2":
		var c core.Category
		if c, err = s.askCategory(ctx); err != nil {
			return err
		}
		total, err = s.svc.TotalByCategory(ctx, c)
	case "3":
		var start, end string
		if start, end, err = s.askRange(ctx); err != nil {
			return err
		}
		total, err = s.svc.TotalInRange(ctx, start, end)
	case "4":
		return s.monthBreakdown(ctx)
	case "5":
		return nil
	default:
		s.println(s.st.failure.Render("Invalid option selected."))
		return nil
	}
	if err != nil {
		return err
	}
	s.println("Total expenses: " + s.st.amount.Render(s.money(total)))
	return nil
}

func (s *Shell) monthBreakdown(ctx context.Context) error {
	month, err := s.askMonth(ctx)
	if err != nil {
		return err
	}
	overview, err := s.svc.MonthOverview(ctx, month)
	if err != nil {
		return err
	}
	name := overview.Month.String()
	if len(overview.ByCategory) == 0 {
		s.println(s.st.warning.Render("No expenses found for " + name + "."))
		return nil
	}
	s.println(fmt.Sprintf("Total expenses for %s: %s", name, s.st.amount.Render(s.money(overview.Total))))
	for _, ca := range overview.ByCategory {
		s.println(fmt.Sprintf("  %s: %s", ca.Category.Label(), s.money(ca.Amount)))
	}
	return nil
}

func (s *Shell) setBudget(ctx context.Context) error {
	month, err := s.askMonth(ctx)
	if err != nil {
		return err
	}
	amount, err := s.askAmount(ctx, "Enter the budget amount:")
	if err != nil {
		return err
	}
	entry, err := s.svc.SetBudget(ctx, month, amount)
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("You have set a budget of %s for the month of %s.",
		s.money(entry.Amount), core.MonthName(entry.Month)))
	s.println(s.st.success.Render("Budget saved successfully."))
	return nil
}

func (s *Shell) savings(ctx context.Context) error {
	month, err := s.askMonth(ctx)
	if err != nil {
		return err
	}
	report, err := s.svc.CalculateSavings(ctx, month)
	if err != nil {
		return err
	}
	name := core.MonthName(report.Month)
	if saved, ok := report.Savings(); ok {
		s.println(s.st.success.Render(fmt.Sprintf("Your savings for the month of %s are %s", name, s.money(saved))))
		s.println("Savings recorded.")
		return nil
	}
	s.println(s.st.warning.Render(fmt.Sprintf("You spent %s over the budget. There are no savings for the month of %s.",
		s.money(report.Overspend()), name)))
	return nil
}

func (s *Shell) askDate(ctx context.Context, text string) (string, error) {
	for {
		date, err := s.prompt(ctx, text)
		if err != nil {
			return "", err
		}
		if core.IsValidDate(date) {
			return date, nil
		}
		s.println(s.st.failure.Render(fmt.Sprintf("Invalid date: %q. Please enter the date as DD/MM/YYYY.", date)))
	}
}

func (s *Shell) askRange(ctx context.Context) (start, end string, err error) {
	if start, err = s.askDate(ctx, "Enter the start date (DD/MM/YYYY):"); err != nil {
		return "", "", err
	}
	if end, err = s.askDate(ctx, "Enter the end date (DD/MM/YYYY):"); err != nil {
		return "", "", err
	}
	return start, end, nil
}

func (s *Shell) askMonth(ctx context.Context) (string, error) {
	text := "Enter the month (MM: 01, 02, ...):"
	for {
		month, err := s.prompt(ctx, text)
		if err != nil {
			return "", err
		}
		if code, err := core.NormalizeMonth(month); err == nil {
			return code, nil
		}
		text = "Invalid month format. Please enter the month (MM: 01, 02, ...):"
	}
}

func (s *Shell) askName(ctx context.Context) (string, error) {
	for {
		name, err := s.prompt(ctx, "Please enter your expense name:")
		if err != nil {
			return "", err
		}
		switch {
		case name == "":
			s.println(s.st.failure.Render("Invalid name. Please enter a name for your expense."))
		case utf8.RuneCountInString(name) > 200:
			s.println(s.st.failure.Render("Invalid name. Please keep it under 200 characters."))
		default:
			return name, nil
		}
	}
}

func (s *Shell) askAmount(ctx context.Context, text string) (string, error) {
	for {
		amount, err := s.prompt(ctx, text)
		if err != nil {
			return "", err
		}
		_, err = core.ParseAmount(amount)
		switch {
		case err == nil:
			return amount, nil
		case errors.Is(err, core.ErrNonPositiveAmount):
			s.println(s.st.failure.Render("Invalid amount. Please enter a positive number."))
		default:
			s.println(s.st.failure.Render("Invalid amount. Please enter a numeric value."))
		}
	}
}

func (s *Shell) askCategory(ctx context.Context) (core.Category, error) {
	for {
		s.println("Select a category:")
		for i, c := range core.Categories {
			s.println(fmt.Sprintf("  %d.  %s", i+1, c.Label()))
		}
		choice, err := s.prompt(ctx, fmt.Sprintf("Enter a category number [1 - %d]:", len(core.Categories)))
		if err != nil {
			return 0, err
		}
		c, err := core.SelectCategory(choice)
		switch {
		case err == nil:
			return c, nil
		case errors.Is(err, core.ErrCategoryIndexOutOfRange):
			s.println(s.st.failure.Render("Invalid category. Please try again!"))
		default:
			s.println(s.st.failure.Render("Invalid input. Please enter a numeric value."))
		}
	}
}

// prompt prints text and waits for the next input line. It returns io.EOF
// once the input is exhausted.
func (s *Shell) prompt(ctx context.Context, text string) (string, error) {
	s.println(s.st.option.Render(text))
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *Shell) options(items ...string) {
	for _, item := range items {
		s.println("  " + item)
	}
}

func (s *Shell) money(d decimal.Decimal) string {
	return core.FormatCurrencyWith(s.currency, d)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

// readLines feeds input lines to the returned channel until EOF or done.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
