package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goAMMd/internal/config"
	"github.com/LeJamon/goAMMd/internal/core/action"
	_ "github.com/LeJamon/goAMMd/internal/core/action/pool" // register pool actions
	"github.com/LeJamon/goAMMd/internal/oracle"
	"github.com/LeJamon/goAMMd/internal/storage/history"
)

// logEnvelope carries the fields every action log line has in addition
// to the action payload itself.
type logEnvelope struct {
	Timestamp int64  `json:"timestamp"`
	Action    string `json:"action"`
	Account   string `json:"account"`
}

// replayItem is one decoded action log line moving through the replay
// pipeline. A failed decode travels as an item so the outcome log keeps
// one entry per input line.
type replayItem struct {
	index     int
	line      string
	envelope  logEnvelope
	act       action.Action
	decodeErr error
}

// ActionOutcome is the recorded result of one action log line.
type ActionOutcome struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	Account   string `json:"account"`
	Name      string `json:"name"`
	Result    string `json:"result"`
	Applied   bool   `json:"applied"`
	Message   string `json:"message,omitempty"`
}

// ReplaySummary contains the results of one replay run.
type ReplaySummary struct {
	Total    int             `json:"total"`
	Applied  int             `json:"applied"`
	Rejected int             `json:"rejected"`
	Duration string          `json:"duration"`
	Outcomes []ActionOutcome `json:"outcomes"`
}

var (
	genesisFile   string
	outputResult  string
	verboseReplay bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [action-log]",
	Short: "Apply an ordered action log against the pool state",
	Long: `Replay reads a JSON-lines action log and applies every action in
order against the configured state store. Each line is one action object
with a "timestamp" field (epoch milliseconds) alongside the action
fields. The token ledger and oracle prices are seeded from a genesis
file.

Replaying the same log against the same genesis always produces
identical pool state.

Example:
    ammd replay ./actions.jsonl --genesis ./genesis.json
    ammd replay ./actions.jsonl --genesis ./genesis.json -v -o result.json`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&genesisFile, "genesis", "", "genesis JSON file seeding tokens, balances and prices")
	replayCmd.Flags().StringVarP(&outputResult, "output", "o", "", "output file for results (JSON)")
	replayCmd.Flags().BoolVarP(&verboseReplay, "verbose", "v", false, "print every action outcome")
	replayCmd.MarkFlagRequired("genesis")
}

func runReplay(cmd *cobra.Command, args []string) {
	logPath := args[0]
	startTime := time.Now()
	ctx := context.Background()

	cfg, err := loadNodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load config: %v\n", err)
		os.Exit(1)
	}
	params, err := cfg.EngineParams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid engine parameters: %v\n", err)
		os.Exit(1)
	}

	genesis, err := config.LoadGenesis(genesisFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load genesis: %v\n", err)
		os.Exit(1)
	}
	ledger, err := genesis.BuildLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to build token ledger: %v\n", err)
		os.Exit(1)
	}
	source, err := genesis.BuildPriceSource(params.PegSymbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to build price source: %v\n", err)
		os.Exit(1)
	}

	store, closeStore, err := openStateStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open state store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(ctx, cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to open history store: %v\n", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	engine := action.NewEngine(store, ledger, oracle.NewGuard(source), params)

	summary, err := executeReplay(ctx, engine, hist, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Replay failed: %v\n", err)
		os.Exit(1)
	}
	summary.Duration = time.Since(startTime).String()

	fmt.Println()
	fmt.Println("--- Replay Summary ---")
	fmt.Printf("Actions:  %d\n", summary.Total)
	fmt.Printf("Applied:  %d\n", summary.Applied)
	fmt.Printf("Rejected: %d\n", summary.Rejected)
	fmt.Printf("Duration: %s\n", summary.Duration)

	if outputResult != "" {
		if err := writeSummaryJSON(outputResult, summary); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nResults written to: %s\n", outputResult)
	}
}

// executeReplay decodes the action log in a producer goroutine and
// applies the decoded actions strictly in log order in a consumer
// goroutine. Application is never concurrent.
func executeReplay(ctx context.Context, engine *action.Engine, hist *history.Store, logPath string) (*ReplaySummary, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open action log: %w", err)
	}
	defer file.Close()

	summary := &ReplaySummary{}
	items := make(chan replayItem, 64)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(items)

		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		index := 0
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" || line[0] == '#' {
				continue
			}

			item := replayItem{index: index, line: line}
			if err := json.Unmarshal([]byte(line), &item.envelope); err != nil {
				item.decodeErr = err
			} else {
				item.act, item.decodeErr = action.FromJSON([]byte(line))
			}
			index++

			select {
			case items <- item:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return scanner.Err()
	})

	g.Go(func() error {
		for item := range items {
			outcome, events := applyItem(gctx, engine, item)
			summary.Outcomes = append(summary.Outcomes, outcome)
			summary.Total++
			if outcome.Applied {
				summary.Applied++
			} else {
				summary.Rejected++
			}

			if verboseReplay {
				status := "rejected"
				if outcome.Applied {
					status = "applied"
				}
				fmt.Printf("[%4d] %-16s %-12s %s (%s)\n",
					outcome.Index, outcome.Name, status, outcome.Result, outcome.Account)
			}

			if hist != nil {
				if err := recordHistory(gctx, hist, item.line, outcome, events); err != nil {
					return err
				}
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// applyItem applies one decoded log line. Lines that failed to decode
// are recorded as malformed without touching state.
func applyItem(ctx context.Context, engine *action.Engine, item replayItem) (ActionOutcome, []action.Event) {
	outcome := ActionOutcome{
		Index:     item.index,
		Timestamp: item.envelope.Timestamp,
		Account:   item.envelope.Account,
		Name:      item.envelope.Action,
	}

	if item.decodeErr != nil {
		result := action.PemMALFORMED
		if errors.Is(item.decodeErr, action.ErrUnknownAction) {
			result = action.PemUNKNOWN_ACTION
		}
		outcome.Result = result.String()
		outcome.Message = item.decodeErr.Error()
		return outcome, nil
	}

	res := engine.Apply(ctx, item.act, item.envelope.Timestamp)
	outcome.Result = res.Result.String()
	outcome.Applied = res.Applied
	outcome.Message = res.Message
	return outcome, res.Events
}

// recordHistory mirrors one outcome into the relational history store,
// including a fill row for every executed swap.
func recordHistory(ctx context.Context, hist *history.Store, line string, outcome ActionOutcome, events []action.Event) error {
	rec := &history.ActionRecord{
		Timestamp: outcome.Timestamp,
		Account:   outcome.Account,
		Name:      outcome.Name,
		Payload:   line,
		Result:    outcome.Result,
		Applied:   outcome.Applied,
		Message:   outcome.Message,
	}
	if err := hist.RecordAction(ctx, rec); err != nil {
		return err
	}

	for _, ev := range events {
		if ev.Name != "swapTokens" {
			continue
		}
		fill := &history.SwapFill{
			Timestamp: outcome.Timestamp,
			TokenPair: ev.Data["tokenPair"],
			Account:   ev.Data["account"],
			SymbolIn:  ev.Data["symbolIn"],
			AmountIn:  ev.Data["amountIn"],
			SymbolOut: ev.Data["symbolOut"],
			AmountOut: ev.Data["amountOut"],
		}
		if err := hist.RecordFill(ctx, fill); err != nil {
			return err
		}
	}
	return nil
}

func writeSummaryJSON(path string, summary *ReplaySummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
