package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGenesisFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGenesisAndBuildLedger(t *testing.T) {
	path := writeGenesisFile(t, `{
		"tokens": [
			{"symbol": "TOKENA", "precision": 8, "issuer": "alice", "supply": "1000000"},
			{"symbol": "TOKENB", "precision": 8, "issuer": "alice", "supply": "2000000"}
		],
		"balances": [
			{"account": "bob", "symbol": "TOKENA", "quantity": "5000"}
		],
		"prices": [
			{"symbol": "TOKENA", "price": "2"}
		]
	}`)

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Len(t, g.Tokens, 2)

	ctx := context.Background()
	ledger, err := g.BuildLedger(ctx)
	require.NoError(t, err)

	bal, err := ledger.Balance(ctx, "bob", "TOKENA")
	require.NoError(t, err)
	assert.Equal(t, "5000", bal.String())

	bal, err = ledger.Balance(ctx, "alice", "TOKENA")
	require.NoError(t, err)
	assert.Equal(t, "995000", bal.String())

	tok, err := ledger.Token(ctx, "TOKENB")
	require.NoError(t, err)
	assert.Equal(t, int32(8), tok.Precision)

	source, err := g.BuildPriceSource("USD")
	require.NoError(t, err)
	price, err := source.Price(ctx, "TOKENA")
	require.NoError(t, err)
	assert.Equal(t, "2", price.String())
	peg, err := source.Price(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "1", peg.String())
}

func TestLoadGenesisRejections(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGenesis("/nonexistent/genesis.json")
		require.Error(t, err)
	})

	t.Run("no tokens", func(t *testing.T) {
		path := writeGenesisFile(t, `{"tokens": []}`)
		_, err := LoadGenesis(path)
		require.Error(t, err)
	})

	t.Run("balance for unknown token", func(t *testing.T) {
		path := writeGenesisFile(t, `{
			"tokens": [{"symbol": "TOKENA", "precision": 8, "issuer": "alice", "supply": "100"}],
			"balances": [{"account": "bob", "symbol": "TOKENX", "quantity": "1"}]
		}`)
		g, err := LoadGenesis(path)
		require.NoError(t, err)
		_, err = g.BuildLedger(context.Background())
		require.Error(t, err)
	})

	t.Run("overdrawn balance", func(t *testing.T) {
		path := writeGenesisFile(t, `{
			"tokens": [{"symbol": "TOKENA", "precision": 8, "issuer": "alice", "supply": "100"}],
			"balances": [{"account": "bob", "symbol": "TOKENA", "quantity": "101"}]
		}`)
		g, err := LoadGenesis(path)
		require.NoError(t, err)
		_, err = g.BuildLedger(context.Background())
		require.Error(t, err)
	})
}
