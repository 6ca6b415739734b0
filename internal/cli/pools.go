package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var poolsJSON bool

// poolsCmd represents the pools command
var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List liquidity pools in the state store",
	Long: `Pools prints every pool record in the configured state store,
including reserves, outstanding shares and last computed prices.`,
	Run: runPools,
}

func init() {
	rootCmd.AddCommand(poolsCmd)

	poolsCmd.Flags().BoolVar(&poolsJSON, "json", false, "print pools as JSON")
}

func runPools(cmd *cobra.Command, args []string) {
	cfg, err := loadNodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, closeStore, err := openStateStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open state store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	pools, err := store.Pools(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to list pools: %v\n", err)
		os.Exit(1)
	}

	if poolsJSON {
		data, err := json.MarshalIndent(pools, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to encode pools: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if len(pools) == 0 {
		fmt.Println("No pools found.")
		return
	}

	fmt.Printf("%-24s %-20s %-20s %-18s %-14s %-14s\n",
		"PAIR", "BASE", "QUOTE", "SHARES", "BASE PRICE", "QUOTE PRICE")
	for _, p := range pools {
		fmt.Printf("%-24s %-20s %-20s %-18s %-14s %-14s\n",
			p.TokenPair,
			p.BaseQuantity.String(),
			p.QuoteQuantity.String(),
			p.TotalShares.String(),
			p.BasePrice.String(),
			p.QuotePrice.String())
	}
	fmt.Printf("\n%d pool(s)\n", len(pools))
}
