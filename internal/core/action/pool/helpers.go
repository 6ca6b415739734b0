// Package pool implements the liquidity-pool actions: createPool,
// addLiquidity, removeLiquidity and swapTokens.
package pool

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/amm"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/state"
	"github.com/LeJamon/goAMMd/internal/tokens"
)

// Action names as they appear in logs and JSON payloads.
const (
	NameCreatePool      = "createPool"
	NameAddLiquidity    = "addLiquidity"
	NameRemoveLiquidity = "removeLiquidity"
	NameSwapTokens      = "swapTokens"
)

func validationErr(code action.Result, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", code.String(), fmt.Sprintf(format, args...))
}

// parsePositiveAmount parses a decimal text field that must be
// strictly positive.
func parsePositiveAmount(field, value string) (decimal.Decimal, error) {
	d, err := dec.Parse(value)
	if err != nil {
		return decimal.Decimal{}, validationErr(action.PemBAD_AMOUNT, "%s: %v", field, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, validationErr(action.PemBAD_AMOUNT, "%s must be positive, got %s", field, value)
	}
	return d, nil
}

// parseSlippage parses an optional slippage fraction. Empty input
// returns ok=false so the engine default applies.
func parseSlippage(value string) (decimal.Decimal, bool, error) {
	if value == "" {
		return decimal.Decimal{}, false, nil
	}
	s, err := dec.Parse(value)
	if err != nil {
		return decimal.Decimal{}, false, validationErr(action.PemBAD_SLIPPAGE, "%v", err)
	}
	if !s.IsPositive() || s.GreaterThanOrEqual(dec.One) {
		return decimal.Decimal{}, false, validationErr(action.PemBAD_SLIPPAGE, "got %s", value)
	}
	return s, true, nil
}

// pairTokens resolves both legs of a pair against the token ledger.
func pairTokens(ctx *action.ApplyContext, pair string) (base, quote *tokens.Token, result action.Result) {
	baseSym, quoteSym, err := amm.SplitPair(pair)
	if err != nil {
		return nil, nil, action.PemBAD_PAIR
	}
	base, err = ctx.Ledger.Token(ctx.Ctx, baseSym)
	if err != nil {
		return nil, nil, action.PecTOKEN_NOT_FOUND
	}
	quote, err = ctx.Ledger.Token(ctx.Ctx, quoteSym)
	if err != nil {
		return nil, nil, action.PecTOKEN_NOT_FOUND
	}
	return base, quote, action.PesSUCCESS
}

// hasBalance reports whether account holds at least amount of symbol.
func hasBalance(ctx *action.ApplyContext, account, symbol string, amount decimal.Decimal) (bool, error) {
	bal, err := ctx.Ledger.Balance(ctx.Ctx, account, symbol)
	if err != nil {
		return false, err
	}
	return bal.GreaterThanOrEqual(amount), nil
}

// poolEmpty reports whether a pool has no usable reserves.
func poolEmpty(p *state.Pool) bool {
	return !p.BaseQuantity.IsPositive() || !p.QuoteQuantity.IsPositive()
}

// swapErrResult maps quote-engine and validator errors to result codes.
func swapErrResult(err error) action.Result {
	switch {
	case errors.Is(err, amm.ErrInsufficientReserve):
		return action.PecINSUFFICIENT_RESERVE
	case errors.Is(err, amm.ErrConstantProduct):
		return action.PecCONSTANT_PRODUCT
	case errors.Is(err, amm.ErrSlippageExceeded):
		return action.PecSLIPPAGE
	case errors.Is(err, amm.ErrEmptyPoolReserves):
		return action.PecPOOL_EMPTY
	case errors.Is(err, amm.ErrNonPositiveAmount), errors.Is(err, amm.ErrNonPositiveReserve):
		return action.PecPOOL_EMPTY
	default:
		return action.PecINTERNAL
	}
}
