package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goAMMd/internal/config"
)

// initConfigCmd represents the init-config command
var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write an example configuration file",
	Long: `Init-config writes a commented example ammd.toml with typical
engine, storage and history settings to the given path.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.SaveExampleConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write example config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Example configuration written to: %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}
