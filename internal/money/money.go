package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityTolerance is the maximum drift tolerated when reconciling
// quantity arithmetic on stock movements.
var QuantityTolerance = decimal.New(1, -2)

// ErrNegativeAmount indicates a monetary or quantity value below zero.
var ErrNegativeAmount = errors.New("amount cannot be negative")

// Quantize rounds a value to two decimal places.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RequireNonNegative rejects negative values, naming the offending field.
func RequireNonNegative(name string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%s: %w", name, ErrNegativeAmount)
	}
	return nil
}

// WithinTolerance reports whether two values differ by at most QuantityTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(QuantityTolerance)
}

// MustParse converts a literal into a decimal and panics on malformed input.
// Intended for constants and test fixtures only.
func MustParse(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
