package auth

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/player-soap-service/internal/application/common"
	"github.com/andrescamacho/player-soap-service/internal/application/mediator"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/logging"
)

// Context keys for passing authentication data through context
type authContextKey int

const (
	principalKey authContextKey = iota + 1000 // Offset from logger keys
)

// WithPrincipal injects the authenticated caller into the context
func WithPrincipal(ctx context.Context, principal *domainAuth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext extracts the authenticated caller from context
func PrincipalFromContext(ctx context.Context) (*domainAuth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*domainAuth.Principal)
	return principal, ok && principal != nil
}

// AuditMiddleware logs every command or query with the caller that issued it.
// Requests without a principal are refused: every player operation needs an
// authenticated caller.
func AuditMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			return nil, shared.NewAuthenticationError("No authorization header provided")
		}

		start := time.Now()
		response, err := next(ctx, request)

		attrs := []any{
			slog.String(logging.FieldCommand, requestName(request)),
			slog.String(logging.FieldUser, principal.Username),
			slog.String(logging.FieldAuthMethod, principal.Method),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		}
		if id := common.RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, slog.String(logging.FieldRequestID, id))
		}

		logger := common.LoggerFromContext(ctx)
		if err != nil {
			logger.Warn("request failed", append(attrs,
				slog.String(logging.FieldErrorType, shared.ErrorType(err)),
				slog.String("error", err.Error()),
			)...)
		} else {
			logger.Debug("request handled", attrs...)
		}
		return response, err
	}
}

// requestName turns "*commands.CreatePlayerCommand" into "CreatePlayerCommand"
func requestName(request mediator.Request) string {
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
