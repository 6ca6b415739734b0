package pool

import (
	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/amm"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/state"
)

// Trade types accepted by swapTokens.
const (
	TradeExactInput  = "exactInput"
	TradeExactOutput = "exactOutput"
)

func init() {
	action.Register(NameSwapTokens, func() action.Action { return &SwapTokens{} })
}

// SwapTokens trades one leg of a pair for the other at the constant
// product price. The input leg is rounded up and the output leg down,
// so rounding error always accrues to the pool.
type SwapTokens struct {
	action.Common
	TokenPair   string `json:"tokenPair"`
	TokenSymbol string `json:"tokenSymbol"`
	TokenAmount string `json:"tokenAmount"`
	TradeType   string `json:"tradeType"`
	MaxSlippage string `json:"maxSlippage,omitempty"`

	amount         decimal.Decimal
	maxSlippage    decimal.Decimal
	hasMaxSlippage bool
}

func (a *SwapTokens) Name() string { return NameSwapTokens }

func (a *SwapTokens) GetCommon() *action.Common { return &a.Common }

func (a *SwapTokens) Validate() error {
	if _, _, err := amm.SplitPair(a.TokenPair); err != nil {
		return validationErr(action.PemBAD_PAIR, "%v", err)
	}
	if !amm.ValidSymbol(a.TokenSymbol) {
		return validationErr(action.PemMALFORMED, "invalid token symbol %q", a.TokenSymbol)
	}
	if a.TradeType != TradeExactInput && a.TradeType != TradeExactOutput {
		return validationErr(action.PemBAD_TRADE_TYPE, "got %q", a.TradeType)
	}

	var err error
	if a.amount, err = parsePositiveAmount("tokenAmount", a.TokenAmount); err != nil {
		return err
	}
	if a.maxSlippage, a.hasMaxSlippage, err = parseSlippage(a.MaxSlippage); err != nil {
		return err
	}
	return nil
}

func (a *SwapTokens) Apply(ctx *action.ApplyContext) action.Result {
	p, err := ctx.Store.GetPool(ctx.Ctx, a.TokenPair)
	if err != nil {
		return action.PecPOOL_NOT_FOUND
	}
	if poolEmpty(p) {
		return action.PecPOOL_EMPTY
	}
	baseTok, quoteTok, res := pairTokens(ctx, a.TokenPair)
	if !res.IsSuccess() {
		return res
	}

	// Orient the trade: which leg goes in, which comes out.
	var inTok, outTok = baseTok, quoteTok
	var reserveIn, reserveOut = p.BaseQuantity, p.QuoteQuantity
	symbolIsBase := a.TokenSymbol == baseTok.Symbol
	if !symbolIsBase && a.TokenSymbol != quoteTok.Symbol {
		return action.PecSYMBOL_MISMATCH
	}
	if (a.TradeType == TradeExactInput) != symbolIsBase {
		inTok, outTok = quoteTok, baseTok
		reserveIn, reserveOut = p.QuoteQuantity, p.BaseQuantity
	}

	maxSlippage := ctx.Params.DefaultMaxSlippage
	if a.hasMaxSlippage {
		maxSlippage = a.maxSlippage
	}

	var amountIn, amountOut decimal.Decimal
	if a.TradeType == TradeExactInput {
		amountIn = dec.RoundUp(a.amount, inTok.Precision)
		rawOut, qerr := amm.AmountOut(amountIn, reserveIn, reserveOut)
		if qerr != nil {
			return swapErrResult(qerr)
		}
		amountOut = dec.RoundDown(rawOut, outTok.Precision)
	} else {
		amountOut = dec.RoundDown(a.amount, outTok.Precision)
		if !amountOut.IsPositive() {
			return action.PecZERO_PAYOUT
		}
		rawIn, qerr := amm.AmountIn(amountOut, reserveIn, reserveOut)
		if qerr != nil {
			return swapErrResult(qerr)
		}
		amountIn = dec.RoundUp(rawIn, inTok.Precision)
	}
	if !amountOut.IsPositive() || !amountIn.IsPositive() {
		return action.PecZERO_PAYOUT
	}

	var baseDelta, quoteDelta decimal.Decimal
	if inTok.Symbol == baseTok.Symbol {
		baseDelta, quoteDelta = amountIn, amountOut.Neg()
	} else {
		baseDelta, quoteDelta = amountOut.Neg(), amountIn
	}

	if verr := amm.ValidateSwap(p.BaseQuantity, p.QuoteQuantity, baseDelta, quoteDelta, p.Precision, maxSlippage); verr != nil {
		return swapErrResult(verr)
	}

	ok, berr := hasBalance(ctx, a.Account, inTok.Symbol, amountIn)
	if berr != nil {
		return action.PecINTERNAL
	}
	if !ok {
		return action.PecUNFUNDED
	}

	if err := ctx.Ledger.Transfer(ctx.Ctx, a.Account, ctx.Params.ContractAccount, inTok.Symbol, amountIn); err != nil {
		return action.PecTRANSFER_FAILED
	}
	if err := ctx.Ledger.Transfer(ctx.Ctx, ctx.Params.ContractAccount, a.Account, outTok.Symbol, amountOut); err != nil {
		// Refund the input leg before aborting.
		_ = ctx.Ledger.Transfer(ctx.Ctx, ctx.Params.ContractAccount, a.Account, inTok.Symbol, amountIn)
		return action.PecTRANSFER_FAILED
	}

	if err := state.UpdatePoolStats(p, state.StatsDelta{
		BaseDelta:    baseDelta,
		QuoteDelta:   quoteDelta,
		BaseVolume:   baseDelta,
		QuoteVolume:  quoteDelta,
		UpdatePrices: true,
	}); err != nil {
		return action.PecINTERNAL
	}
	if err := ctx.Store.SavePool(ctx.Ctx, p); err != nil {
		return action.PecINTERNAL
	}

	ctx.EmitEvent(NameSwapTokens, map[string]string{
		"tokenPair": a.TokenPair,
		"account":   a.Account,
		"symbolIn":  inTok.Symbol,
		"amountIn":  amountIn.String(),
		"symbolOut": outTok.Symbol,
		"amountOut": amountOut.String(),
	})
	return action.PesSUCCESS
}
