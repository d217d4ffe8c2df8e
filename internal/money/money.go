// Package money converts between major-unit decimals (12.50) and integer minor
// units (1250). All settlement arithmetic runs on minor units; conversion back
// to decimals only happens at display and persistence boundaries.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of minor units in one major unit (two decimal digits).
const Precision = 100

var (
	ErrNotFinite  = errors.New("amount is not a finite number")
	ErrOutOfRange = errors.New("amount does not fit in minor units")
)

var (
	precision = decimal.NewFromInt(Precision)
	half      = decimal.New(5, -1)
	maxMinor  = decimal.NewFromInt(math.MaxInt64)
	minMinor  = decimal.NewFromInt(math.MinInt64)
)

// ToMinor converts a major-unit float to minor units, rounding half up.
// The float is read through its shortest decimal representation, so 1.005
// becomes 101 rather than the 100 a naive x*100 would produce.
func ToMinor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrNotFinite
	}
	return FromDecimal(decimal.NewFromFloat(amount))
}

// FromDecimal converts a major-unit decimal to minor units, rounding half up
// (a trailing .5 minor unit always moves toward positive infinity).
func FromDecimal(amount decimal.Decimal) (int64, error) {
	scaled := amount.Mul(precision).Add(half).Floor()
	if scaled.GreaterThan(maxMinor) || scaled.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}
	return scaled.IntPart(), nil
}

// ToMajor converts minor units back to a major-unit float for display.
func ToMajor(minor int64) float64 {
	return float64(minor) / Precision
}

// ToDecimal converts minor units to an exact major-unit decimal.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
