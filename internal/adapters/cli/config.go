package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect player service configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (PS_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  playerctl config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			fmt.Fprintln(out, "Player Service Configuration")
			fmt.Fprintln(out, "============================")

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nSOAP Server:")
			fmt.Fprintf(out, "  Address:          %s\n", cfg.Server.Address)
			fmt.Fprintf(out, "  Endpoint:         %s\n", cfg.Server.SOAPPath)
			fmt.Fprintf(out, "  Body Limit:       %d bytes\n", cfg.Server.BodyLimit)
			fmt.Fprintf(out, "  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
			if cfg.Server.PIDFile != "" {
				fmt.Fprintf(out, "  PID File:         %s\n", cfg.Server.PIDFile)
			}

			fmt.Fprintln(out, "\nAuth:")
			fmt.Fprintf(out, "  Admin User:       %s\n", cfg.Auth.AdminUsername)
			fmt.Fprintf(out, "  Token TTL:        %s\n", cfg.Auth.TokenTTL)
			fmt.Fprintf(out, "  Sweep Interval:   %s\n", cfg.Auth.SweepInterval)

			fmt.Fprintln(out, "\nHealth:")
			if cfg.Health.Address != "" {
				fmt.Fprintf(out, "  gRPC Address:     %s\n", cfg.Health.Address)
			} else {
				fmt.Fprintln(out, "  gRPC Address:     (disabled)")
			}

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Path:             %s\n", cfg.Metrics.Path)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
