package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/application/auth"
	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/application/mediator"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

type probeQuery struct{}

type failingHandler struct{ err error }

func (h failingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return nil, h.err
}

func TestAuditMiddleware_RejectsAnonymousRequests(t *testing.T) {
	// Arrange
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*probeQuery](med, failingHandler{}))
	med.RegisterMiddleware(auth.AuditMiddleware())

	// Act
	_, err := med.Send(context.Background(), &probeQuery{})

	// Assert
	var authErr *shared.AuthenticationError
	assert.True(t, errors.As(err, &authErr))
}

func TestAuditMiddleware_LogsFailuresWithCaller(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*probeQuery](med, failingHandler{err: shared.NewNotFoundError("Player", 3)}))
	med.RegisterMiddleware(auth.AuditMiddleware())

	ctx := common.WithLogger(context.Background(), logger)
	ctx = common.WithRequestID(ctx, "req-1")
	ctx = auth.WithPrincipal(ctx, &domainAuth.Principal{Username: "admin", Role: domainAuth.RoleAdmin, Method: "Basic"})

	// Act
	_, err := med.Send(ctx, &probeQuery{})

	// Assert
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "command=probeQuery")
	assert.Contains(t, out, "user=admin")
	assert.Contains(t, out, "error_type=NotFoundError")
	assert.Contains(t, out, "request_id=req-1")
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	_, ok := auth.PrincipalFromContext(context.Background())

	assert.False(t, ok)
}
