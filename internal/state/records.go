// Package state persists the pool ledger: Pool and LiquidityPosition
// records keyed by token pair, serialized as msgpack.
package state

import (
	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

// Record versions. Version 0 predates cumulative volume tracking.
const (
	poolRecordVersion     = 1
	positionRecordVersion = 1
)

// Pool is the persistent record of one liquidity pool.
type Pool struct {
	Version       uint8           `codec:"version"`
	TokenPair     string          `codec:"tokenPair"`
	BaseQuantity  decimal.Decimal `codec:"baseQuantity"`
	QuoteQuantity decimal.Decimal `codec:"quoteQuantity"`
	BasePrice     decimal.Decimal `codec:"basePrice"`
	QuotePrice    decimal.Decimal `codec:"quotePrice"`
	BaseVolume    decimal.Decimal `codec:"baseVolume"`
	QuoteVolume   decimal.Decimal `codec:"quoteVolume"`
	TotalShares   decimal.Decimal `codec:"totalShares"`
	Precision     int32           `codec:"precision"`
	Creator       string          `codec:"creator"`
}

// LiquidityPosition records one account's share of a pool. TimeFactor
// is a weighted deposit timestamp in epoch milliseconds, used by reward
// schemes to discount late deposits.
type LiquidityPosition struct {
	Version    uint8           `codec:"version"`
	Account    string          `codec:"account"`
	TokenPair  string          `codec:"tokenPair"`
	Shares     decimal.Decimal `codec:"shares"`
	TimeFactor int64           `codec:"timeFactor"`
}

// StatsDelta is a validated change to apply to a pool record.
type StatsDelta struct {
	BaseDelta   decimal.Decimal
	QuoteDelta  decimal.Decimal
	SharesDelta decimal.Decimal

	// Absolute traded amounts accumulated into the pool's volume
	// counters. Zero for liquidity operations.
	BaseVolume  decimal.Decimal
	QuoteVolume decimal.Decimal

	UpdatePrices bool
}

// UpdatePoolStats applies a delta to the pool's reserves, shares and
// volumes, then recomputes the derived prices. Prices are left
// untouched while either reserve is zero.
func UpdatePoolStats(p *Pool, d StatsDelta) error {
	p.BaseQuantity = p.BaseQuantity.Add(d.BaseDelta)
	p.QuoteQuantity = p.QuoteQuantity.Add(d.QuoteDelta)
	p.TotalShares = p.TotalShares.Add(d.SharesDelta)
	p.BaseVolume = p.BaseVolume.Add(d.BaseVolume.Abs())
	p.QuoteVolume = p.QuoteVolume.Add(d.QuoteVolume.Abs())

	if !d.UpdatePrices || !p.BaseQuantity.IsPositive() || !p.QuoteQuantity.IsPositive() {
		return nil
	}

	basePrice, err := dec.DivPrec(p.QuoteQuantity, p.BaseQuantity)
	if err != nil {
		return err
	}
	quotePrice, err := dec.DivPrec(p.BaseQuantity, p.QuoteQuantity)
	if err != nil {
		return err
	}
	p.BasePrice = dec.RoundDown(basePrice, p.Precision)
	p.QuotePrice = dec.RoundDown(quotePrice, p.Precision)
	return nil
}
