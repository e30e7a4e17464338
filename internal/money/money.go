// Package money converts between decimal currency amounts and integer minor units (cents).
//
// Prices are persisted as cents only. Conversions round half away from zero, so
// 0.005 becomes 1 cent and -0.005 becomes -1 cent.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxCents is the largest absolute amount, in cents, a price may hold (100 billion units).
// Amounts up to it are exact both as int64 cents and as float64 responses.
const MaxCents int64 = 10_000_000_000_000

// ErrOutOfRange is returned for amounts whose cent value exceeds MaxCents.
var ErrOutOfRange = errors.New("amount out of range")

var (
	// centsPerUnit is the number of minor units in one currency unit.
	centsPerUnit = decimal.NewFromInt(100)
	maxCents     = decimal.NewFromInt(MaxCents)
)

// ToMinorUnits converts a decimal amount to cents, rounding half away from zero.
// The bound is checked on the rounded decimal, before narrowing to int64.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(centsPerUnit).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, ErrOutOfRange
	}
	return cents.IntPart(), nil
}

// ToDecimal converts cents back to a decimal amount with two fractional digits.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// RoundCents rounds a fractional cent value (e.g. an average) to whole cents, half away from zero.
func RoundCents(cents float64) int64 {
	return decimal.NewFromFloat(cents).Round(0).IntPart()
}

// Float returns the amount in cents as a float64 suitable for a JSON response.
// The result is the nearest float64 to the exact two-decimal value.
func Float(cents int64) float64 {
	return ToDecimal(cents).InexactFloat64()
}
