package grpc_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/player-soap-service/internal/adapters/grpc"
)

func startHealthServer(t *testing.T, check func(context.Context) error) (*grpcAdapter.HealthServer, healthpb.HealthClient) {
	t.Helper()
	server, err := grpcAdapter.NewHealthServer("127.0.0.1:0", check, time.Hour, nil)
	require.NoError(t, err)

	go func() { _ = server.Start() }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(server.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server, healthpb.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var resp *healthpb.HealthCheckResponse
	require.Eventually(t, func() bool {
		var err error
		resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	return resp.GetStatus()
}

func TestHealthServer_ServingWhenCheckPasses(t *testing.T) {
	_, client := startHealthServer(t, func(context.Context) error { return nil })

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, grpcAdapter.ServiceName))
}

func TestHealthServer_RefreshFollowsCheck(t *testing.T) {
	// Arrange
	var failing atomic.Bool
	server, client := startHealthServer(t, func(context.Context) error {
		if failing.Load() {
			return errors.New("database unreachable")
		}
		return nil
	})
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, grpcAdapter.ServiceName))

	// Act
	failing.Store(true)
	status := server.Refresh(context.Background())

	// Assert
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, client, grpcAdapter.ServiceName))
}

func TestHealthServer_StopIsIdempotent(t *testing.T) {
	server, err := grpcAdapter.NewHealthServer("127.0.0.1:0", nil, time.Hour, nil)
	require.NoError(t, err)
	go func() { _ = server.Start() }()

	assert.NotPanics(t, func() {
		server.Stop()
		server.Stop()
	})
}
