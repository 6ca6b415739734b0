package amm

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

var (
	ErrConstantProduct   = errors.New("constant product invariant violated")
	ErrSlippageExceeded  = errors.New("price impact exceeds slippage limit")
	ErrEmptyPoolReserves = errors.New("pool reserves are empty")
)

// ValidateSwap checks a proposed reserve delta against the pool's
// invariants. The new constant product must not fall below the old one
// and must reproduce it to the pool's precision in significant digits,
// and the resulting price move must stay within maxSlippage (a
// fraction, e.g. 0.01 for 1%).
func ValidateSwap(baseQuantity, quoteQuantity, baseDelta, quoteDelta decimal.Decimal, precision int32, maxSlippage decimal.Decimal) error {
	if !baseQuantity.IsPositive() || !quoteQuantity.IsPositive() {
		return ErrEmptyPoolReserves
	}

	newBase := baseQuantity.Add(baseDelta)
	newQuote := quoteQuantity.Add(quoteDelta)
	if !newBase.IsPositive() || !newQuote.IsPositive() {
		return ErrInsufficientReserve
	}

	k := baseQuantity.Mul(quoteQuantity)
	newK := newBase.Mul(newQuote)
	if newK.LessThan(k) {
		return ErrConstantProduct
	}
	if !dec.SigFigs(newK, precision).Equal(dec.SigFigs(k, precision)) {
		return ErrConstantProduct
	}

	price, err := dec.DivPrec(quoteQuantity, baseQuantity)
	if err != nil {
		return err
	}
	newPrice, err := dec.DivPrec(newQuote, newBase)
	if err != nil {
		return err
	}
	slippage, err := dec.DivPrec(newPrice.Sub(price).Abs(), price)
	if err != nil {
		return err
	}
	if slippage.GreaterThan(maxSlippage) {
		return ErrSlippageExceeded
	}
	return nil
}
