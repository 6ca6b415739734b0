package pool

import (
	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/amm"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/state"
)

func init() {
	action.Register(NameRemoveLiquidity, func() action.Action { return &RemoveLiquidity{} })
}

// RemoveLiquidity burns a percentage of the account's shares and pays
// out both legs proportionally, rounded down to token precision.
type RemoveLiquidity struct {
	action.Common
	TokenPair string `json:"tokenPair"`
	SharesOut string `json:"sharesOut"`

	sharesOut decimal.Decimal
}

func (a *RemoveLiquidity) Name() string { return NameRemoveLiquidity }

func (a *RemoveLiquidity) GetCommon() *action.Common { return &a.Common }

func (a *RemoveLiquidity) Validate() error {
	if _, _, err := amm.SplitPair(a.TokenPair); err != nil {
		return validationErr(action.PemBAD_PAIR, "%v", err)
	}

	so, err := dec.Parse(a.SharesOut)
	if err != nil {
		return validationErr(action.PemBAD_SHARES_OUT, "%v", err)
	}
	if !so.IsPositive() || so.GreaterThan(dec.Hundred) {
		return validationErr(action.PemBAD_SHARES_OUT, "got %s", a.SharesOut)
	}
	if !dec.FitsPlaces(so, 3) {
		return validationErr(action.PemBAD_SHARES_OUT, "at most 3 decimal places, got %s", a.SharesOut)
	}
	a.sharesOut = so
	return nil
}

func (a *RemoveLiquidity) Apply(ctx *action.ApplyContext) action.Result {
	p, err := ctx.Store.GetPool(ctx.Ctx, a.TokenPair)
	if err != nil {
		return action.PecPOOL_NOT_FOUND
	}
	baseTok, quoteTok, res := pairTokens(ctx, a.TokenPair)
	if !res.IsSuccess() {
		return res
	}

	lp, err := ctx.Store.GetPosition(ctx.Ctx, a.TokenPair, a.Account)
	if err != nil {
		return action.PecNO_POSITION
	}
	if !p.TotalShares.IsPositive() {
		return action.PecNO_POSITION
	}

	sharesDelta, err := dec.DivPrec(lp.Shares.Mul(a.sharesOut), dec.Hundred)
	if err != nil {
		return action.PecINTERNAL
	}
	if !sharesDelta.IsPositive() {
		return action.PecZERO_PAYOUT
	}

	baseOut, err := payout(sharesDelta, p.BaseQuantity, p.TotalShares, baseTok.Precision)
	if err != nil {
		return action.PecINTERNAL
	}
	quoteOut, err := payout(sharesDelta, p.QuoteQuantity, p.TotalShares, quoteTok.Precision)
	if err != nil {
		return action.PecINTERNAL
	}
	if !baseOut.IsPositive() || !quoteOut.IsPositive() {
		return action.PecZERO_PAYOUT
	}
	if baseOut.GreaterThan(p.BaseQuantity) || quoteOut.GreaterThan(p.QuoteQuantity) {
		return action.PecINSUFFICIENT_RESERVE
	}

	if err := ctx.Ledger.Transfer(ctx.Ctx, ctx.Params.ContractAccount, a.Account, baseTok.Symbol, baseOut); err != nil {
		return action.PecTRANSFER_FAILED
	}
	if err := ctx.Ledger.Transfer(ctx.Ctx, ctx.Params.ContractAccount, a.Account, quoteTok.Symbol, quoteOut); err != nil {
		// Return the first leg to custody before aborting.
		_ = ctx.Ledger.Transfer(ctx.Ctx, a.Account, ctx.Params.ContractAccount, baseTok.Symbol, baseOut)
		return action.PecTRANSFER_FAILED
	}

	remaining := lp.Shares.Sub(sharesDelta)
	if remaining.IsPositive() {
		lp.Shares = remaining
		if err := ctx.Store.SavePosition(ctx.Ctx, lp); err != nil {
			return action.PecINTERNAL
		}
	} else {
		if err := ctx.Store.DeletePosition(ctx.Ctx, a.TokenPair, a.Account); err != nil {
			return action.PecINTERNAL
		}
	}

	if err := state.UpdatePoolStats(p, state.StatsDelta{
		BaseDelta:    baseOut.Neg(),
		QuoteDelta:   quoteOut.Neg(),
		SharesDelta:  sharesDelta.Neg(),
		UpdatePrices: true,
	}); err != nil {
		return action.PecINTERNAL
	}
	if err := ctx.Store.SavePool(ctx.Ctx, p); err != nil {
		return action.PecINTERNAL
	}

	ctx.EmitEvent(NameRemoveLiquidity, map[string]string{
		"tokenPair":     a.TokenPair,
		"account":       a.Account,
		"baseQuantity":  baseOut.String(),
		"quoteQuantity": quoteOut.String(),
		"shares":        sharesDelta.String(),
	})
	return action.PesSUCCESS
}

// payout computes sharesDelta * reserve / totalShares rounded down to
// the token's precision.
func payout(sharesDelta, reserve, totalShares decimal.Decimal, precision int32) (decimal.Decimal, error) {
	raw, err := dec.DivPrec(sharesDelta.Mul(reserve), totalShares)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return dec.RoundDown(raw, precision), nil
}
