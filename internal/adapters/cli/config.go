package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/supplychain-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration settings",
		Long: `Configuration is loaded from multiple sources with priority:
1. Environment variables (SC_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  supplychain config show`,
	}

	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Warning: %v\nUsing default configuration.\n\n", err)
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Fprintln(out, "Supply Chain Configuration")
			fmt.Fprintln(out, "==========================")

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Definitions:      %s\n", cfg.Simulation.DefinitionsPath)
			fmt.Fprintf(out, "  Ticks/second:     %g\n", cfg.Simulation.TicksPerSecond)
			fmt.Fprintf(out, "  Max ticks:        %d\n", cfg.Simulation.MaxTicks)
			fmt.Fprintf(out, "  Book horizon:     %d\n", cfg.Simulation.OrderBookHorizon)
			fmt.Fprintf(out, "  Journal:          %t\n", cfg.Simulation.Journal)

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  PID file:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Shutdown timeout: %s\n", cfg.Daemon.ShutdownTimeout)
			return nil
		},
	}
}

// maskPassword hides the password in a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
