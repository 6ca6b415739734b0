package pool

import (
	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/amm"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/state"
)

func init() {
	action.Register(NameAddLiquidity, func() action.Action { return &AddLiquidity{} })
}

// AddLiquidity deposits both legs of a pair and mints pool shares. On a
// non-empty pool the second leg is resized to the pool ratio; the
// resize must stay within the slippage limit.
type AddLiquidity struct {
	action.Common
	TokenPair     string `json:"tokenPair"`
	BaseQuantity  string `json:"baseQuantity"`
	QuoteQuantity string `json:"quoteQuantity"`
	MaxSlippage   string `json:"maxSlippage,omitempty"`
	MaxDeviation  string `json:"maxDeviation,omitempty"`

	baseQty         decimal.Decimal
	quoteQty        decimal.Decimal
	maxSlippage     decimal.Decimal
	hasMaxSlippage  bool
	maxDeviation    decimal.Decimal
	hasMaxDeviation bool
}

func (a *AddLiquidity) Name() string { return NameAddLiquidity }

func (a *AddLiquidity) GetCommon() *action.Common { return &a.Common }

func (a *AddLiquidity) Validate() error {
	if _, _, err := amm.SplitPair(a.TokenPair); err != nil {
		return validationErr(action.PemBAD_PAIR, "%v", err)
	}

	var err error
	if a.baseQty, err = parsePositiveAmount("baseQuantity", a.BaseQuantity); err != nil {
		return err
	}
	if a.quoteQty, err = parsePositiveAmount("quoteQuantity", a.QuoteQuantity); err != nil {
		return err
	}
	if a.maxSlippage, a.hasMaxSlippage, err = parseSlippage(a.MaxSlippage); err != nil {
		return err
	}
	if a.MaxDeviation != "" {
		// Any non-positive value explicitly disables the oracle guard.
		if a.maxDeviation, err = dec.Parse(a.MaxDeviation); err != nil {
			return validationErr(action.PemBAD_AMOUNT, "maxDeviation: %v", err)
		}
		a.hasMaxDeviation = true
	}
	return nil
}

func (a *AddLiquidity) Apply(ctx *action.ApplyContext) action.Result {
	p, err := ctx.Store.GetPool(ctx.Ctx, a.TokenPair)
	if err != nil {
		return action.PecPOOL_NOT_FOUND
	}
	baseTok, quoteTok, res := pairTokens(ctx, a.TokenPair)
	if !res.IsSuccess() {
		return res
	}

	maxSlippage := ctx.Params.DefaultMaxSlippage
	if a.hasMaxSlippage {
		maxSlippage = a.maxSlippage
	}
	maxDeviation := ctx.Params.DefaultMaxDeviation
	if a.hasMaxDeviation {
		maxDeviation = a.maxDeviation
	}

	if !dec.FitsPlaces(a.baseQty, baseTok.Precision) || !dec.FitsPlaces(a.quoteQty, quoteTok.Precision) {
		return action.PecPRECISION
	}

	baseIn, quoteIn := a.baseQty, a.quoteQty
	if poolEmpty(p) {
		// First deposit sets the pool price; guard it against the
		// oracle reference.
		price, perr := dec.DivPrec(quoteIn, baseIn)
		if perr != nil {
			return action.PecINTERNAL
		}
		if gerr := ctx.Oracle.CheckDeviation(ctx.Ctx, baseTok.Symbol, quoteTok.Symbol, price, maxDeviation); gerr != nil {
			return action.PecPRICE_DEVIATION
		}
	} else {
		// Resize one leg to the pool ratio, keeping the other as given.
		expectedQuote, qerr := amm.Quote(baseIn, p.BaseQuantity, p.QuoteQuantity)
		if qerr != nil {
			return swapErrResult(qerr)
		}
		if expectedQuote.LessThanOrEqual(quoteIn) {
			adjusted := dec.RoundDown(expectedQuote, quoteTok.Precision)
			if res := checkAdjustment(quoteIn, adjusted, maxSlippage); !res.IsSuccess() {
				return res
			}
			quoteIn = adjusted
		} else {
			expectedBase, berr := amm.Quote(quoteIn, p.QuoteQuantity, p.BaseQuantity)
			if berr != nil {
				return swapErrResult(berr)
			}
			adjusted := dec.RoundDown(expectedBase, baseTok.Precision)
			if res := checkAdjustment(baseIn, adjusted, maxSlippage); !res.IsSuccess() {
				return res
			}
			baseIn = adjusted
		}
		if !baseIn.IsPositive() || !quoteIn.IsPositive() {
			return action.PecZERO_PAYOUT
		}
	}

	minted, res := mintShares(p, baseIn, quoteIn)
	if !res.IsSuccess() {
		return res
	}

	ok, berr := hasBalance(ctx, a.Account, baseTok.Symbol, baseIn)
	if berr != nil {
		return action.PecINTERNAL
	}
	if !ok {
		return action.PecUNFUNDED
	}
	ok, berr = hasBalance(ctx, a.Account, quoteTok.Symbol, quoteIn)
	if berr != nil {
		return action.PecINTERNAL
	}
	if !ok {
		return action.PecUNFUNDED
	}

	if err := ctx.Ledger.Transfer(ctx.Ctx, a.Account, ctx.Params.ContractAccount, baseTok.Symbol, baseIn); err != nil {
		return action.PecTRANSFER_FAILED
	}
	if err := ctx.Ledger.Transfer(ctx.Ctx, a.Account, ctx.Params.ContractAccount, quoteTok.Symbol, quoteIn); err != nil {
		// Refund the first leg before aborting.
		_ = ctx.Ledger.Transfer(ctx.Ctx, ctx.Params.ContractAccount, a.Account, baseTok.Symbol, baseIn)
		return action.PecTRANSFER_FAILED
	}

	lp, perr := ctx.Store.GetPosition(ctx.Ctx, a.TokenPair, a.Account)
	if perr != nil {
		lp = &state.LiquidityPosition{
			Account:    a.Account,
			TokenPair:  a.TokenPair,
			Shares:     minted,
			TimeFactor: ctx.Timestamp,
		}
	} else {
		lp.TimeFactor = blendTimeFactor(lp.TimeFactor, ctx.Timestamp, lp.Shares, minted)
		lp.Shares = lp.Shares.Add(minted)
	}
	if err := ctx.Store.SavePosition(ctx.Ctx, lp); err != nil {
		return action.PecINTERNAL
	}

	if err := state.UpdatePoolStats(p, state.StatsDelta{
		BaseDelta:    baseIn,
		QuoteDelta:   quoteIn,
		SharesDelta:  minted,
		UpdatePrices: true,
	}); err != nil {
		return action.PecINTERNAL
	}
	if err := ctx.Store.SavePool(ctx.Ctx, p); err != nil {
		return action.PecINTERNAL
	}

	ctx.EmitEvent(NameAddLiquidity, map[string]string{
		"tokenPair":     a.TokenPair,
		"account":       a.Account,
		"baseQuantity":  baseIn.String(),
		"quoteQuantity": quoteIn.String(),
		"shares":        minted.String(),
	})
	return action.PesSUCCESS
}

// checkAdjustment rejects a leg resize that strays further from the
// requested amount than the slippage limit allows.
func checkAdjustment(requested, adjusted, maxSlippage decimal.Decimal) action.Result {
	if !adjusted.IsPositive() {
		return action.PecZERO_PAYOUT
	}
	drift, err := dec.DivPrec(requested.Sub(adjusted).Abs(), requested)
	if err != nil {
		return action.PecINTERNAL
	}
	if drift.GreaterThan(maxSlippage) {
		return action.PecSLIPPAGE
	}
	return action.PesSUCCESS
}

// mintShares computes the shares for a deposit: sqrt(base*quote) for
// the first deposit, otherwise the smaller proportional claim.
func mintShares(p *state.Pool, baseIn, quoteIn decimal.Decimal) (decimal.Decimal, action.Result) {
	if p.TotalShares.IsZero() {
		minted, err := dec.SqrtFloor(baseIn.Mul(quoteIn), p.Precision)
		if err != nil {
			return decimal.Decimal{}, action.PecINTERNAL
		}
		if !minted.IsPositive() {
			return decimal.Decimal{}, action.PecZERO_PAYOUT
		}
		return minted, action.PesSUCCESS
	}

	baseClaim, err := dec.DivPrec(baseIn.Mul(p.TotalShares), p.BaseQuantity)
	if err != nil {
		return decimal.Decimal{}, action.PecINTERNAL
	}
	quoteClaim, err := dec.DivPrec(quoteIn.Mul(p.TotalShares), p.QuoteQuantity)
	if err != nil {
		return decimal.Decimal{}, action.PecINTERNAL
	}
	minted := baseClaim
	if quoteClaim.LessThan(minted) {
		minted = quoteClaim
	}
	minted = dec.RoundDown(minted, p.Precision)
	if !minted.IsPositive() {
		return decimal.Decimal{}, action.PecZERO_PAYOUT
	}
	return minted, action.PesSUCCESS
}

// blendTimeFactor pulls an existing position's weighted deposit time
// toward now in proportion to the newly added shares.
func blendTimeFactor(timeFactor, now int64, existing, added decimal.Decimal) int64 {
	if now <= timeFactor {
		return timeFactor
	}
	final := existing.Add(added)
	if !final.IsPositive() {
		return now
	}
	ratio, err := dec.DivPrec(added, final)
	if err != nil {
		return now
	}
	span := decimal.NewFromInt(now - timeFactor)
	blended := timeFactor + span.Mul(ratio).IntPart()
	if blended > now {
		return now
	}
	return blended
}
