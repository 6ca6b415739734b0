package tokens

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/dec"
)

// MemoryLedger is an in-process Ledger used by tests and replay runs.
type MemoryLedger struct {
	mu       sync.RWMutex
	tokens   map[string]Token
	balances map[string]map[string]decimal.Decimal
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		tokens:   make(map[string]Token),
		balances: make(map[string]map[string]decimal.Decimal),
	}
}

// Issue registers a token and credits the initial supply to account.
func (m *MemoryLedger) Issue(symbol string, precision int32, account string, supply decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[symbol]; ok {
		return fmt.Errorf("token %s already issued", symbol)
	}
	if supply.IsNegative() {
		return ErrInvalidQuantity
	}
	if !dec.FitsPlaces(supply, precision) {
		return ErrPrecisionExceeded
	}
	m.tokens[symbol] = Token{Symbol: symbol, Precision: precision}
	if supply.IsPositive() {
		m.credit(account, symbol, supply)
	}
	return nil
}

func (m *MemoryLedger) Token(ctx context.Context, symbol string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tok, ok := m.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	return &tok, nil
}

func (m *MemoryLedger) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.tokens[symbol]; !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	return m.balances[account][symbol], nil
}

func (m *MemoryLedger) Transfer(ctx context.Context, from, to, symbol string, quantity decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, ok := m.tokens[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	if from == to {
		return ErrSameAccount
	}
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if !dec.FitsPlaces(quantity, tok.Precision) {
		return fmt.Errorf("%w: %s %s", ErrPrecisionExceeded, quantity, symbol)
	}
	if m.balances[from][symbol].LessThan(quantity) {
		return fmt.Errorf("%w: %s needs %s %s", ErrInsufficientBalance, from, quantity, symbol)
	}

	m.balances[from][symbol] = m.balances[from][symbol].Sub(quantity)
	m.credit(to, symbol, quantity)
	return nil
}

func (m *MemoryLedger) credit(account, symbol string, quantity decimal.Decimal) {
	if m.balances[account] == nil {
		m.balances[account] = make(map[string]decimal.Decimal)
	}
	m.balances[account][symbol] = m.balances[account][symbol].Add(quantity)
}
