package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	runID      string
	verbose    bool
	jsonOutput bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "farmsim",
		Short: "Farm simulation - grow, tend, harvest and sell crops",
		Long: `farmsim runs a farm simulation in the terminal.

Time advances in game weeks; crops grow through their stages, consume water
and nutrients, and die when neglected. Every action is scored and archived.

Examples:
  farmsim run --weeks 52 --autopilot
  farmsim play --farm-type organic
  farmsim crops
  farmsim decisions --kind plant --limit 20
  farmsim reports --limit 8
  farmsim runs`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/farmsim)")
	rootCmd.PersistentFlags().StringVar(&runID, "run", "",
		"Run ID for archive commands (default: the last run started)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log engine activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print machine-readable JSON")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewCropsCommand())
	rootCmd.AddCommand(NewDecisionsCommand())
	rootCmd.AddCommand(NewReportsCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// loadConfig reads configuration, reporting a broken file instead of
// silently falling back
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
