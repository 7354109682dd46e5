package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath      string
	definitionsPath string
	verbose         bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "supplychain",
		Short: "Supply chain tick simulator",
		Long: `Supply chain simulator: producers, processors and retailers trading
resources over a transport network, one discrete tick at a time.

Every command loads the scenario definitions, builds the initial state and
works on its own copy of the world. Runs can be journaled to a database and
inspected afterwards with the ledger and runs commands.

Examples:
  supplychain run --ticks 200 --journal
  supplychain step --ticks 3 --action "harbour_shop:place_order:bread:10:7:bakery"
  supplychain route bakery harbour_shop
  supplychain orderbook mill --after 40 --horizon 30
  supplychain suppliers bakery flour --after 10
  supplychain ledger list --run <run-id> --entity bakery
  supplychain runs list`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&definitionsPath, "definitions", "",
		"Scenario definitions file (overrides simulation.definitions_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log every tick at debug level")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewStepCommand())
	rootCmd.AddCommand(NewRouteCommand())
	rootCmd.AddCommand(NewOrderBookCommand())
	rootCmd.AddCommand(NewSuppliersCommand())
	rootCmd.AddCommand(NewActivityCommand())
	rootCmd.AddCommand(NewDemandCommand())
	rootCmd.AddCommand(NewEntitiesCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewRunsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
