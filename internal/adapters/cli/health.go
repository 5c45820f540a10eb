package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/player-soap-service/internal/adapters/grpc"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health status",
		Long:  `Query the service's gRPC health endpoint and report whether it is serving.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				cfg := config.LoadConfigOrDefault(configPath)
				address = cfg.Health.Address
			}
			if address == "" {
				return fmt.Errorf("no health address configured; pass --addr or set PS_HEALTH_ADDRESS")
			}

			conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", address, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{
				Service: grpcAdapter.ServiceName,
			})
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("service is %s", resp.GetStatus())
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Service is healthy")
			fmt.Fprintf(cmd.OutOrStdout(), "  Address: %s\n", address)
			fmt.Fprintf(cmd.OutOrStdout(), "  Status:  %s\n", resp.GetStatus())
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "addr", "", "gRPC health address (default: health.address from config)")

	return cmd
}
