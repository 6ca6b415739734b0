// Package tokens abstracts the token ledger the pool engine settles
// against. The engine never holds balances itself; every deposit,
// withdrawal, fee and payout is a Transfer on this ledger.
package tokens

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// NullAccount receives burned tokens. Nothing can transfer out of it.
const NullAccount = "null"

var (
	ErrUnknownToken        = errors.New("unknown token")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrPrecisionExceeded   = errors.New("quantity exceeds token precision")
	ErrSameAccount         = errors.New("sender and receiver are the same account")
)

// Token describes an issued asset.
type Token struct {
	Symbol    string
	Precision int32
}

// Ledger is the balance store actions settle against.
type Ledger interface {
	// Token returns the token definition, or ErrUnknownToken.
	Token(ctx context.Context, symbol string) (*Token, error)

	// Balance returns the account's balance for symbol. Accounts with no
	// history hold zero.
	Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error)

	// Transfer moves quantity from one account to another. The quantity
	// must be positive and fit the token's precision.
	Transfer(ctx context.Context, from, to, symbol string, quantity decimal.Decimal) error
}

// Burn sends quantity from the account to the null account.
func Burn(ctx context.Context, l Ledger, from, symbol string, quantity decimal.Decimal) error {
	return l.Transfer(ctx, from, NullAccount, symbol, quantity)
}
