package action

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/oracle"
	"github.com/LeJamon/goAMMd/internal/state"
	"github.com/LeJamon/goAMMd/internal/tokens"
)

// Params holds the engine parameters every action sees. They are fixed
// for the lifetime of an Engine; per-action overrides come from the
// action payloads themselves.
type Params struct {
	// PoolCreationFee is burned on createPool, denominated in FeeSymbol.
	// Zero disables the fee.
	PoolCreationFee decimal.Decimal

	// FeeSymbol is the token the creation fee is paid in.
	FeeSymbol string

	// FeeAccount is exempt from the creation fee.
	FeeAccount string

	// BurnAccount receives burned fees.
	BurnAccount string

	// ContractAccount holds pool reserves in custody.
	ContractAccount string

	// PegSymbol is the unit oracle prices are quoted in. It always
	// quotes at exactly 1.
	PegSymbol string

	// DefaultMaxSlippage bounds price impact when an action does not
	// set its own limit. A fraction, e.g. 0.01 for 1%.
	DefaultMaxSlippage decimal.Decimal

	// DefaultMaxDeviation bounds the distance between a new pool price
	// and the oracle reference. Zero or negative disables the guard.
	DefaultMaxDeviation decimal.Decimal
}

// Event is emitted by applied actions for observers (history, CLI).
type Event struct {
	Name string            `json:"name"`
	Data map[string]string `json:"data"`
}

// ApplyContext carries everything an action needs while applying.
type ApplyContext struct {
	Ctx    context.Context
	Store  *state.Store
	Ledger tokens.Ledger
	Oracle *oracle.Guard
	Params Params

	// Timestamp is the action's execution time in epoch milliseconds.
	// It comes from the action log, never from the wall clock.
	Timestamp int64

	events []Event
}

// EmitEvent records an event on the context.
func (c *ApplyContext) EmitEvent(name string, data map[string]string) {
	c.events = append(c.events, Event{Name: name, Data: data})
}

// Events returns the events emitted so far, in emission order.
func (c *ApplyContext) Events() []Event {
	return c.events
}
