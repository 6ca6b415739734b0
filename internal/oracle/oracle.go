// Package oracle provides external reference prices and the deviation
// guard that keeps pool trades near market.
package oracle

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

var (
	ErrPriceUnavailable = errors.New("reference price unavailable")
	ErrPriceDeviation   = errors.New("price deviates too far from reference")
)

// PriceSource reports the last known price of a token in peg units.
type PriceSource interface {
	// Price returns the token's price, or ErrPriceUnavailable when the
	// source has never seen the token.
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// RegistrySource is a map-backed PriceSource fed by off-chain feeds.
type RegistrySource struct {
	mu     sync.RWMutex
	peg    string
	prices map[string]decimal.Decimal
}

func NewRegistrySource(pegSymbol string) *RegistrySource {
	return &RegistrySource{
		peg:    pegSymbol,
		prices: make(map[string]decimal.Decimal),
	}
}

// SetPrice records the latest feed value for symbol. Non-positive
// prices clear the entry.
func (r *RegistrySource) SetPrice(symbol string, price decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !price.IsPositive() {
		delete(r.prices, symbol)
		return
	}
	r.prices[symbol] = price
}

func (r *RegistrySource) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if symbol == r.peg {
		return dec.One, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prices[symbol]
	if !ok {
		return decimal.Decimal{}, ErrPriceUnavailable
	}
	return p, nil
}

// Guard rejects trades whose resulting pool price strays too far from
// the external reference.
type Guard struct {
	source PriceSource
}

func NewGuard(source PriceSource) *Guard {
	return &Guard{source: source}
}

// CheckDeviation compares poolPrice, the pool's base price in quote
// units after a prospective trade, against the reference ratio
// price(base)/price(quote). A zero or negative maxDeviation disables
// the check, as does a missing feed on either side.
func (g *Guard) CheckDeviation(ctx context.Context, baseSymbol, quoteSymbol string, poolPrice, maxDeviation decimal.Decimal) error {
	if g == nil || g.source == nil || !maxDeviation.IsPositive() {
		return nil
	}

	basePrice, err := g.source.Price(ctx, baseSymbol)
	if err != nil {
		if errors.Is(err, ErrPriceUnavailable) {
			return nil
		}
		return err
	}
	quotePrice, err := g.source.Price(ctx, quoteSymbol)
	if err != nil {
		if errors.Is(err, ErrPriceUnavailable) {
			return nil
		}
		return err
	}
	if !basePrice.IsPositive() || !quotePrice.IsPositive() {
		return nil
	}

	refPrice, err := dec.DivPrec(basePrice, quotePrice)
	if err != nil {
		return err
	}

	diff := poolPrice.Sub(refPrice).Abs()
	deviation, err := dec.DivPrec(diff, refPrice)
	if err != nil {
		return err
	}
	if deviation.GreaterThan(maxDeviation) {
		return ErrPriceDeviation
	}
	return nil
}
