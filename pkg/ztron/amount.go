package ztron

import (
	"math"

	"github.com/holiman/uint256"
)

// Amount is a signed shielded value. The running value balance of a
// transaction is Σ(spend values) − Σ(output values); transparent legs are
// reconciled against it through the token's scaling factor, never by
// mutating it directly.
type Amount int64

// AmountFromUint64 converts a note value to an Amount, rejecting values
// that cannot be represented as a signed 64-bit integer.
func AmountFromUint64(v uint64) (Amount, error) {
	if v > math.MaxInt64 {
		return 0, Errorf(ErrInvalidAmount, "value %d exceeds the representable range", v)
	}
	return Amount(v), nil
}

// Add returns a + b, failing on signed overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, NewError(ErrInvalidAmount, "value balance overflow")
	}
	return sum, nil
}

// Sub returns a − b, failing on signed overflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, NewError(ErrInvalidAmount, "value balance overflow")
	}
	return diff, nil
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a < 0 }

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool { return a > 0 }

// ScalingFactor returns 10^exponent as a 256-bit integer. Shielded note
// values are expressed in whole shielded units; the transparent TRC-20 side
// counts in the token's smallest denomination, 10^decimals smaller.
func ScalingFactor(exponent uint8) *uint256.Int {
	ten := uint256.NewInt(10)
	exp := uint256.NewInt(uint64(exponent))
	return new(uint256.Int).Exp(ten, exp)
}

// Scale multiplies a non-negative shielded value by the scaling factor,
// widening into 256 bits so the product cannot wrap.
func Scale(value uint64, factor *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(value), factor)
}

// ScaledEquals reports whether value × factor equals the transparent
// amount exactly. Integer equality, no rounding.
func ScaledEquals(value uint64, factor, transparent *uint256.Int) bool {
	return Scale(value, factor).Eq(transparent)
}
