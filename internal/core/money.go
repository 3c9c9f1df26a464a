// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering them with a currency symbol.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is used by FormatCurrency.
const DefaultCurrencySymbol = "€"

// ParseAmount parses a strictly positive decimal amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Input
// that is not a number fails with ErrNonNumericAmount, zero or negative
// values with ErrNonPositiveAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> ErrNonPositiveAmount
//	ParseAmount("abc")   -> ErrNonNumericAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNonPositiveAmount, d.String())
	}
	return d, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNonNumericAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNonNumericAmount, s)
	}
	return d, nil
}

// FormatCurrency renders amount with the default symbol and two decimals,
// rounding half up (away from zero for negatives).
func FormatCurrency(amount decimal.Decimal) string {
	return FormatCurrencyWith(DefaultCurrencySymbol, amount)
}

// FormatCurrencyWith is FormatCurrency with a caller supplied symbol.
func FormatCurrencyWith(symbol string, amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-" + symbol + rounded.Abs().StringFixed(2)
	}
	return symbol + rounded.StringFixed(2)
}
