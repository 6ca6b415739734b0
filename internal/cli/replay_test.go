package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goAMMd/internal/core/action"
	"github.com/LeJamon/goAMMd/internal/core/dec"
	"github.com/LeJamon/goAMMd/internal/oracle"
	"github.com/LeJamon/goAMMd/internal/state"
	"github.com/LeJamon/goAMMd/internal/storage/history"
	"github.com/LeJamon/goAMMd/internal/storage/kv"
	"github.com/LeJamon/goAMMd/internal/tokens"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newReplayEngine(t *testing.T) *action.Engine {
	t.Helper()

	store, err := state.NewStore(kv.NewMemoryDB(), 0)
	require.NoError(t, err)

	ledger := tokens.NewMemoryLedger()
	require.NoError(t, ledger.Issue("TOKENA", 8, "alice", d("1000000")))
	require.NoError(t, ledger.Issue("TOKENB", 8, "alice", d("1000000")))

	params := action.Params{
		PoolCreationFee:     dec.Zero,
		BurnAccount:         "null",
		ContractAccount:     "amm.pools",
		PegSymbol:           "USD",
		DefaultMaxSlippage:  d("0.01"),
		DefaultMaxDeviation: dec.Zero,
	}
	return action.NewEngine(store, ledger, oracle.NewGuard(nil), params)
}

func writeActionLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "actions.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestExecuteReplay(t *testing.T) {
	engine := newReplayEngine(t)
	logPath := writeActionLog(t, `# pool bootstrap
{"timestamp":1000,"action":"createPool","account":"alice","tokenPair":"TOKENA:TOKENB"}
{"timestamp":2000,"action":"addLiquidity","account":"alice","tokenPair":"TOKENA:TOKENB","baseQuantity":"1000","quoteQuantity":"2000"}

{"timestamp":3000,"action":"swapTokens","account":"alice","tokenPair":"TOKENA:TOKENB","tokenSymbol":"TOKENA","tokenAmount":"10","tradeType":"exactInput"}
{"timestamp":4000,"action":"closePool","account":"alice","tokenPair":"TOKENA:TOKENB"}
this line is not json
`)

	summary, err := executeReplay(context.Background(), engine, nil, logPath)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Applied)
	assert.Equal(t, 2, summary.Rejected)
	require.Len(t, summary.Outcomes, 5)

	// Outcomes stay in log order.
	assert.Equal(t, "pesSUCCESS", summary.Outcomes[0].Result)
	assert.Equal(t, "createPool", summary.Outcomes[0].Name)
	assert.Equal(t, "pesSUCCESS", summary.Outcomes[1].Result)
	assert.Equal(t, "pesSUCCESS", summary.Outcomes[2].Result)
	assert.Equal(t, "pemUNKNOWN_ACTION", summary.Outcomes[3].Result)
	assert.Equal(t, "pemMALFORMED", summary.Outcomes[4].Result)

	// The swap moved the reserves.
	p, err := engine.Store().GetPool(context.Background(), "TOKENA:TOKENB")
	require.NoError(t, err)
	assert.Equal(t, "1010", p.BaseQuantity.String())
	assert.Equal(t, "1980.19801981", p.QuoteQuantity.String())
}

func TestExecuteReplayRecordsHistory(t *testing.T) {
	engine := newReplayEngine(t)
	ctx := context.Background()

	hist, err := history.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	defer hist.Close()

	logPath := writeActionLog(t, `{"timestamp":1000,"action":"createPool","account":"alice","tokenPair":"TOKENA:TOKENB"}
{"timestamp":2000,"action":"addLiquidity","account":"alice","tokenPair":"TOKENA:TOKENB","baseQuantity":"1000","quoteQuantity":"2000"}
{"timestamp":3000,"action":"swapTokens","account":"alice","tokenPair":"TOKENA:TOKENB","tokenSymbol":"TOKENA","tokenAmount":"10","tradeType":"exactInput"}
{"timestamp":4000,"action":"swapTokens","account":"alice","tokenPair":"TOKENA:TOKENB","tokenSymbol":"TOKENA","tokenAmount":"0","tradeType":"exactInput"}
`)

	summary, err := executeReplay(ctx, engine, hist, logPath)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Applied)
	assert.Equal(t, 1, summary.Rejected)

	count, err := hist.ActionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	// Only the executed swap produced a fill.
	fills, err := hist.Fills(ctx, history.FillQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "TOKENA:TOKENB", fills[0].TokenPair)
	assert.Equal(t, "TOKENA", fills[0].SymbolIn)
	assert.Equal(t, "10", fills[0].AmountIn)
	assert.Equal(t, "TOKENB", fills[0].SymbolOut)
	assert.Equal(t, "19.80198019", fills[0].AmountOut)

	rejected, err := hist.Actions(ctx, history.ActionQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.False(t, rejected[0].Applied)
}

func TestExecuteReplayMissingLog(t *testing.T) {
	engine := newReplayEngine(t)
	_, err := executeReplay(context.Background(), engine, nil, "/nonexistent/actions.jsonl")
	require.Error(t, err)
}
