package amm

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

var (
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrNonPositiveReserve  = errors.New("reserve must be positive")
	ErrInsufficientReserve = errors.New("amount exceeds available reserve")
)

// Quote returns the amount of the counter token at the current pool
// ratio: amount * reserveOut / reserveIn. Used to size the second leg
// of a liquidity deposit.
func Quote(amount, reserveIn, reserveOut decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveAmount
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveReserve
	}
	return dec.DivPrec(amount.Mul(reserveOut), reserveIn)
}

// AmountOut returns the output of an exact-input swap:
// amountIn * reserveOut / (reserveIn + amountIn).
func AmountOut(amountIn, reserveIn, reserveOut decimal.Decimal) (decimal.Decimal, error) {
	if !amountIn.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveAmount
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveReserve
	}
	out, err := dec.DivPrec(amountIn.Mul(reserveOut), reserveIn.Add(amountIn))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if out.GreaterThanOrEqual(reserveOut) {
		return decimal.Decimal{}, ErrInsufficientReserve
	}
	return out, nil
}

// AmountIn returns the input of an exact-output swap:
// reserveIn * amountOut / (reserveOut - amountOut). The requested
// output must be strictly below the reserve.
func AmountIn(amountOut, reserveIn, reserveOut decimal.Decimal) (decimal.Decimal, error) {
	if !amountOut.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveAmount
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return decimal.Decimal{}, ErrNonPositiveReserve
	}
	if amountOut.GreaterThanOrEqual(reserveOut) {
		return decimal.Decimal{}, ErrInsufficientReserve
	}
	return dec.DivPrec(reserveIn.Mul(amountOut), reserveOut.Sub(amountOut))
}
