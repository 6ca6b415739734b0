package action

import (
	"context"

	"github.com/LeJamon/goAMMd/internal/oracle"
	"github.com/LeJamon/goAMMd/internal/state"
	"github.com/LeJamon/goAMMd/internal/tokens"
)

// Engine validates and applies actions strictly one at a time. Replay
// of the same action log against the same starting state produces
// identical results on every platform.
type Engine struct {
	store  *state.Store
	ledger tokens.Ledger
	guard  *oracle.Guard
	params Params
}

// ApplyResult is the outcome of applying one action.
type ApplyResult struct {
	Result  Result
	Applied bool
	Message string
	Events  []Event
}

func NewEngine(store *state.Store, ledger tokens.Ledger, guard *oracle.Guard, params Params) *Engine {
	return &Engine{
		store:  store,
		ledger: ledger,
		guard:  guard,
		params: params,
	}
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Store returns the engine's state store.
func (e *Engine) Store() *state.Store {
	return e.store
}

// Apply runs one action at the given timestamp (epoch milliseconds).
func (e *Engine) Apply(ctx context.Context, act Action, timestamp int64) ApplyResult {
	common := act.GetCommon()
	if common.Account == "" {
		return ApplyResult{Result: PemNO_ACCOUNT, Message: PemNO_ACCOUNT.Message()}
	}

	if err := act.Validate(); err != nil {
		result := parseValidationError(err)
		return ApplyResult{Result: result, Message: err.Error()}
	}

	applyCtx := &ApplyContext{
		Ctx:       ctx,
		Store:     e.store,
		Ledger:    e.ledger,
		Oracle:    e.guard,
		Params:    e.params,
		Timestamp: timestamp,
	}

	result := act.Apply(applyCtx)
	return ApplyResult{
		Result:  result,
		Applied: result.IsApplied(),
		Message: result.Message(),
		Events:  applyCtx.Events(),
	}
}
