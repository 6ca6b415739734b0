package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/oracle"
	"github.com/LeJamon/goAMMd/internal/tokens"
)

// Genesis describes the token ledger and oracle feeds a node starts
// from. Quantities are decimal text.
type Genesis struct {
	Tokens   []GenesisToken   `json:"tokens"`
	Balances []GenesisBalance `json:"balances,omitempty"`
	Prices   []GenesisPrice   `json:"prices,omitempty"`
}

// GenesisToken issues a token and credits its supply to the issuer.
type GenesisToken struct {
	Symbol    string `json:"symbol"`
	Precision int32  `json:"precision"`
	Issuer    string `json:"issuer"`
	Supply    string `json:"supply"`
}

// GenesisBalance moves part of a token's supply from its issuer to
// another account.
type GenesisBalance struct {
	Account  string `json:"account"`
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
}

// GenesisPrice seeds the oracle registry with a reference price.
type GenesisPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// LoadGenesis reads and parses a genesis JSON file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse genesis file %s: %w", path, err)
	}
	if len(g.Tokens) == 0 {
		return nil, fmt.Errorf("genesis file %s defines no tokens", path)
	}
	return &g, nil
}

// BuildLedger issues the genesis tokens into a fresh in-memory ledger
// and applies the balance entries as transfers from each issuer.
func (g *Genesis) BuildLedger(ctx context.Context) (*tokens.MemoryLedger, error) {
	ledger := tokens.NewMemoryLedger()

	issuers := make(map[string]string, len(g.Tokens))
	for _, tok := range g.Tokens {
		supply, err := dec.Parse(tok.Supply)
		if err != nil {
			return nil, fmt.Errorf("invalid supply for token %s: %w", tok.Symbol, err)
		}
		if err := ledger.Issue(tok.Symbol, tok.Precision, tok.Issuer, supply); err != nil {
			return nil, fmt.Errorf("failed to issue token %s: %w", tok.Symbol, err)
		}
		issuers[tok.Symbol] = tok.Issuer
	}

	for _, bal := range g.Balances {
		issuer, ok := issuers[bal.Symbol]
		if !ok {
			return nil, fmt.Errorf("balance entry references unknown token %s", bal.Symbol)
		}
		qty, err := dec.Parse(bal.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid balance quantity for %s/%s: %w", bal.Account, bal.Symbol, err)
		}
		if err := ledger.Transfer(ctx, issuer, bal.Account, bal.Symbol, qty); err != nil {
			return nil, fmt.Errorf("failed to fund %s with %s %s: %w", bal.Account, bal.Quantity, bal.Symbol, err)
		}
	}

	return ledger, nil
}

// BuildPriceSource seeds an oracle registry from the genesis price
// entries. The peg symbol is always priced at one.
func (g *Genesis) BuildPriceSource(pegSymbol string) (*oracle.RegistrySource, error) {
	source := oracle.NewRegistrySource(pegSymbol)
	for _, entry := range g.Prices {
		price, err := dec.Parse(entry.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid genesis price for %s: %w", entry.Symbol, err)
		}
		source.SetPrice(entry.Symbol, price)
	}
	return source, nil
}
