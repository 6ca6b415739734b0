// Package dec provides the fixed-point decimal arithmetic used by the pool
// engine. Every quantity, price and share amount flows through this package:
// parsing is strict, rounding is always explicit, and division and square
// root are computed over math/big integers so that every node derives
// bit-identical results from identical inputs. No float64 is ever involved.
package dec

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// DivPlaces is the fixed number of decimal places carried by intermediate
// quotients. All nodes must divide at the same internal precision.
const DivPlaces = 30

var (
	ErrInvalidDecimal  = errors.New("invalid decimal literal")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNegativeSqrt    = errors.New("square root of negative value")
	ErrTooManyDecimals = errors.New("too many decimal places")
)

var (
	// Zero and One are shared constants; decimal.Decimal is immutable so
	// they are safe to hand out.
	Zero = decimal.Decimal{}
	One  = decimal.NewFromInt(1)

	// Hundred is used by percentage math (removeLiquidity shares).
	Hundred = decimal.NewFromInt(100)
)

// Parse converts a decimal text literal into a Decimal. Only plain literals
// are accepted: an optional sign, digits, and at most one decimal point.
// Exponent notation, hex, Inf and NaN spellings are rejected so that the
// wire format stays canonical.
func Parse(s string) (decimal.Decimal, error) {
	if s == "" {
		return Zero, ErrInvalidDecimal
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
		case (c == '-' || c == '+') && i == 0:
		default:
			return Zero, ErrInvalidDecimal
		}
	}
	if strings.Count(s, ".") > 1 {
		return Zero, ErrInvalidDecimal
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidDecimal
	}
	return d, nil
}

// RoundDown truncates d toward zero at the given number of decimal places.
func RoundDown(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundDown(places)
}

// RoundUp rounds d away from zero at the given number of decimal places.
func RoundUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundUp(places)
}

// FitsPlaces reports whether d can be represented exactly with at most the
// given number of decimal places.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// DivPrec divides a by b, truncating the quotient toward zero at DivPlaces
// decimal places. The computation goes through big.Rat so the result is
// independent of any package-global division precision.
func DivPrec(a, b decimal.Decimal) (decimal.Decimal, error) {
	return divTrunc(a, b, DivPlaces)
}

// DivDown divides a by b and truncates toward zero at the given places.
func DivDown(a, b decimal.Decimal, places int32) (decimal.Decimal, error) {
	return divTrunc(a, b, places)
}

func divTrunc(a, b decimal.Decimal, places int32) (decimal.Decimal, error) {
	if b.IsZero() {
		return Zero, ErrDivisionByZero
	}
	q := new(big.Rat).Quo(a.Rat(), b.Rat())
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	num := new(big.Int).Mul(q.Num(), scale)
	// big.Int.Quo truncates toward zero, matching the engine's rounding rule.
	z := new(big.Int).Quo(num, q.Denom())
	return decimal.NewFromBigInt(z, -places), nil
}

// SqrtFloor returns the square root of d, truncated toward zero at the given
// number of decimal places. It scales d to an integer at 2*places digits and
// takes the integer square root, so the result is exact-floor and identical
// on every platform.
func SqrtFloor(d decimal.Decimal, places int32) (decimal.Decimal, error) {
	if d.IsNegative() {
		return Zero, ErrNegativeSqrt
	}
	if d.IsZero() {
		return Zero, nil
	}
	scaled := d.Shift(2 * places).Truncate(0)
	root := new(big.Int).Sqrt(scaled.BigInt())
	return decimal.NewFromBigInt(root, -places), nil
}

// SigFigs rounds d to the given number of significant digits, half away from
// zero. Used to compare constant products at a pool's fixed precision.
func SigFigs(d decimal.Decimal, figs int32) decimal.Decimal {
	if d.IsZero() || figs <= 0 {
		return d
	}
	coeff := new(big.Int).Abs(d.Coefficient())
	digits := int32(len(coeff.String()))
	// Position of the most significant digit relative to the decimal point.
	msd := digits + d.Exponent()
	return d.Round(figs - msd)
}
