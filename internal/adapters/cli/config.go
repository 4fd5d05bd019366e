package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage farmsim configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FARM_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

User preferences (last run, default farm type) are stored in ~/.farmsim/config.json

Examples:
  farmsim config show
  farmsim config set-farm-type organic`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetFarmTypeCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			if jsonOutput {
				masked := *cfg
				masked.Database.URL = maskPassword(cfg.Database.URL)
				if masked.Database.Password != "" {
					masked.Database.Password = "****"
				}
				return printJSON(out, map[string]interface{}{"config": masked, "user": userCfg})
			}

			fmt.Fprintln(out, "farmsim Configuration")
			fmt.Fprintln(out, "=====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Last run:         %s\n", orNotSet(userCfg.LastRunID))
			fmt.Fprintf(out, "  Farm type:        %s\n", orNotSet(userCfg.DefaultFarmType))

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Farm type:        %s\n", cfg.Simulation.FarmType)
			if cfg.Simulation.FarmSize > 0 {
				fmt.Fprintf(out, "  Farm size:        %.1f ha\n", cfg.Simulation.FarmSize)
			}
			fmt.Fprintf(out, "  Game hour:        %s (week = %s)\n", cfg.Simulation.GameHour, WeekDuration(cfg))
			fmt.Fprintf(out, "  Tick interval:    %s\n", cfg.Simulation.TickInterval)
			fmt.Fprintf(out, "  Recovery:         dead %s, harvested %s on %s time\n",
				cfg.Land.DeadRecovery, cfg.Land.HarvestedRecovery, cfg.Land.RecoveryTimebase)
			fmt.Fprintf(out, "  Prices:           %s\n", cfg.Economy.PriceMode)

			fmt.Fprintln(out, "\nEnvironment:")
			fmt.Fprintf(out, "  Provider:         %s\n", cfg.Environment.Provider)
			if cfg.Environment.URL != "" {
				fmt.Fprintf(out, "  URL:              %s\n", cfg.Environment.URL)
			}
			fmt.Fprintf(out, "  Poll interval:    %s\n", cfg.Environment.PollInterval)

			fmt.Fprintln(out, "\nDatabase:")
			if cfg.Database.Disabled {
				fmt.Fprintln(out, "  Archive:          disabled")
			} else {
				fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
				switch {
				case cfg.Database.URL != "":
					fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
				case cfg.Database.Type == "sqlite":
					fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
				default:
					fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
					fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				}
			}

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  PID file:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Autopilot:        %v\n", cfg.Daemon.Autopilot)
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Metrics:          http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetFarmTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-farm-type <smallholder|industrial|organic>",
		Short: "Set the farm preset used when --farm-type is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmType, err := economy.ParseFarmType(args[0])
			if err != nil {
				return err
			}
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultFarmType(string(farmType)); err != nil {
				return fmt.Errorf("failed to save default farm type: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default farm type set to %s\n", farmType)
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
