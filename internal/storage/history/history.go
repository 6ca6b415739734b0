// Package history records applied actions and swap fills in a
// relational database. It is an observer of the engine: the
// deterministic apply path never reads from it.
package history

import "errors"

var (
	ErrInvalidDriver = errors.New("invalid history driver")
	ErrStoreClosed   = errors.New("history store is closed")
	ErrInvalidLimit  = errors.New("limit must be positive")
)

// ActionRecord is one applied action with its outcome.
type ActionRecord struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Account   string `json:"account"`
	Name      string `json:"name"`
	Payload   string `json:"payload"`
	Result    string `json:"result"`
	Applied   bool   `json:"applied"`
	Message   string `json:"message,omitempty"`
}

// SwapFill is one executed swap leg pair.
type SwapFill struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"`
	TokenPair string `json:"token_pair"`
	Account   string `json:"account"`
	SymbolIn  string `json:"symbol_in"`
	AmountIn  string `json:"amount_in"`
	SymbolOut string `json:"symbol_out"`
	AmountOut string `json:"amount_out"`
}

// ActionQuery selects a page of action records, newest first.
type ActionQuery struct {
	Account string // empty matches all accounts
	Limit   int
	Offset  int
}

// FillQuery selects a page of swap fills, newest first.
type FillQuery struct {
	TokenPair string // empty matches all pools
	Limit     int
	Offset    int
}
