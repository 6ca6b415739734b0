package pool

import (
	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/amm"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/state"
)

func init() {
	action.Register(NameCreatePool, func() action.Action { return &CreatePool{} })
}

// CreatePool creates an empty pool for a token pair. The creation fee
// is burned, unless the actor is the fee account or the fee is zero.
type CreatePool struct {
	action.Common
	TokenPair string `json:"tokenPair"`
}

func (a *CreatePool) Name() string { return NameCreatePool }

func (a *CreatePool) GetCommon() *action.Common { return &a.Common }

func (a *CreatePool) Validate() error {
	if _, _, err := amm.SplitPair(a.TokenPair); err != nil {
		return validationErr(action.PemBAD_PAIR, "%v", err)
	}
	return nil
}

func (a *CreatePool) Apply(ctx *action.ApplyContext) action.Result {
	baseTok, quoteTok, res := pairTokens(ctx, a.TokenPair)
	if !res.IsSuccess() {
		return res
	}

	exists, err := ctx.Store.PoolExists(ctx.Ctx, a.TokenPair)
	if err != nil {
		return action.PecINTERNAL
	}
	if !exists {
		reverse, rerr := amm.ReversePair(a.TokenPair)
		if rerr != nil {
			return action.PemBAD_PAIR
		}
		exists, err = ctx.Store.PoolExists(ctx.Ctx, reverse)
		if err != nil {
			return action.PecINTERNAL
		}
	}
	if exists {
		return action.PecPOOL_EXISTS
	}

	fee := ctx.Params.PoolCreationFee
	if fee.IsPositive() && a.Account != ctx.Params.FeeAccount {
		ok, err := hasBalance(ctx, a.Account, ctx.Params.FeeSymbol, fee)
		if err != nil {
			return action.PecTOKEN_NOT_FOUND
		}
		if !ok {
			return action.PecUNFUNDED
		}
		if err := ctx.Ledger.Transfer(ctx.Ctx, a.Account, ctx.Params.BurnAccount, ctx.Params.FeeSymbol, fee); err != nil {
			return action.PecTRANSFER_FAILED
		}
	}

	precision := baseTok.Precision
	if quoteTok.Precision > precision {
		precision = quoteTok.Precision
	}

	p := &state.Pool{
		TokenPair:     a.TokenPair,
		BaseQuantity:  dec.Zero,
		QuoteQuantity: dec.Zero,
		BasePrice:     dec.Zero,
		QuotePrice:    dec.Zero,
		BaseVolume:    dec.Zero,
		QuoteVolume:   dec.Zero,
		TotalShares:   dec.Zero,
		Precision:     precision,
		Creator:       a.Account,
	}
	if err := ctx.Store.SavePool(ctx.Ctx, p); err != nil {
		return action.PecINTERNAL
	}

	ctx.EmitEvent(NameCreatePool, map[string]string{
		"tokenPair": a.TokenPair,
		"creator":   a.Account,
	})
	return action.PesSUCCESS
}
