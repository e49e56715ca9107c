// Package core holds the domain types and monetary arithmetic for the
// finance tracker.
//
// Amounts are stored as integer cents. Conversion from user input goes
// through exact decimal arithmetic with half-up rounding so that binary
// floating point never touches a monetary value.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var centsFactor = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to cents.
//
// The input is parsed as an exact decimal and rounded half-up (ties away
// from zero) to two fractional digits before scaling. Amounts are
// magnitudes; the transaction type carries the sign, so negative input is
// rejected.
//
// Examples:
//
//	ParseAmount("120.45") -> 12045, nil
//	ParseAmount("2500")   -> 250000, nil
//	ParseAmount("19.995") -> 2000, nil (half-up)
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	return d.Round(2).Mul(centsFactor).IntPart(), nil
}

// FormatAmount renders cents as a decimal string with exactly two
// fractional digits. FormatAmount is the inverse of ParseAmount:
// ParseAmount(FormatAmount(c)) == c for every non-negative c.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
