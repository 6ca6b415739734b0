package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goAMMd/internal/config"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ammd",
	Short: "goAMMd - Deterministic liquidity pool engine in Go",
	Long: `goAMMd is a deterministic automated market maker engine written in Go.
It maintains constant-product liquidity pools over a token ledger, applies
pool actions from an ordered action log, and produces identical state on
every replay. All arithmetic is exact decimal; no floating point is used.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}

// loadNodeConfig loads the configuration file named by --conf, or the
// built-in defaults plus environment overrides when none was given.
func loadNodeConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfig(configFile)
	}
	return config.LoadDefaultConfig()
}
