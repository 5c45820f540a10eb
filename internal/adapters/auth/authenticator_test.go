package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

type authFixture struct {
	authenticator *auth.Authenticator
	issuer        *auth.TokenIssuer
	store         *auth.MemoryTokenStore
	clock         *shared.MockClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	users := persistence.NewGormUserRepository(db)
	require.NoError(t, auth.EnsureUser(context.Background(), users, "admin", "password123", domainAuth.RoleAdmin))

	clock := shared.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	store := auth.NewMemoryTokenStore()
	issuer := auth.NewTokenIssuer("test-secret-0123456789", time.Hour, store, clock)
	return &authFixture{
		authenticator: auth.NewAuthenticator(users, issuer, store, clock),
		issuer:        issuer,
		store:         store,
		clock:         clock,
	}
}

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func requireAuthError(t *testing.T, err error, message string) {
	t.Helper()
	var authErr *shared.AuthenticationError
	require.True(t, errors.As(err, &authErr), "expected AuthenticationError, got %v", err)
	assert.Equal(t, message, authErr.Message)
}

func TestAuthenticator_BasicCredentials(t *testing.T) {
	f := newAuthFixture(t)

	principal, err := f.authenticator.Authenticate(context.Background(), basicHeader("admin", "password123"))

	require.NoError(t, err)
	assert.Equal(t, "admin", principal.Username)
	assert.Equal(t, domainAuth.RoleAdmin, principal.Role)
	assert.Equal(t, "Basic", principal.Method)
}

func TestAuthenticator_Rejections(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "No authorization header provided"},
		{"wrong password", basicHeader("admin", "nope"), "Invalid credentials"},
		{"unknown user", basicHeader("ghost", "password123"), "Invalid credentials"},
		{"garbled basic", "Basic !!!", "Invalid credentials"},
		{"empty bearer", "Bearer ", "No token provided"},
		{"unsupported scheme", "Digest abc", "Invalid authentication method"},
		{"unsigned bearer", "Bearer pst.e30.bad", "Invalid token format: signature mismatch"},
		{"foreign bearer", "Bearer eyJhbGciOi.x.y", "Invalid token format: malformed token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.authenticator.Authenticate(context.Background(), tt.header)
			requireAuthError(t, err, tt.message)
		})
	}
}

func TestAuthenticator_LoginIssuesUsableToken(t *testing.T) {
	// Arrange
	f := newAuthFixture(t)

	// Act
	token, err := f.authenticator.Login(context.Background(), "admin", "password123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, time.Hour, token.ExpiresAt.Sub(token.IssuedAt))

	principal, err := f.authenticator.Authenticate(context.Background(), "Bearer "+token.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal.Username)
	assert.Equal(t, "Bearer", principal.Method)
}

func TestAuthenticator_LoginWithBadPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.authenticator.Login(context.Background(), "admin", "wrong")

	requireAuthError(t, err, "Invalid credentials")
	assert.Zero(t, f.store.Len())
}

func TestAuthenticator_LogoutInvalidatesToken(t *testing.T) {
	// Arrange
	f := newAuthFixture(t)
	token, err := f.authenticator.Login(context.Background(), "admin", "password123")
	require.NoError(t, err)

	// Act
	f.authenticator.Logout("Bearer " + token.Value)

	// Assert
	_, err = f.authenticator.Authenticate(context.Background(), "Bearer "+token.Value)
	requireAuthError(t, err, "Token not found or has been invalidated")
}

func TestAuthenticator_ExpiredTokenIsRemoved(t *testing.T) {
	// Arrange
	f := newAuthFixture(t)
	token, err := f.authenticator.Login(context.Background(), "admin", "password123")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	// Act
	_, err = f.authenticator.Authenticate(context.Background(), "Bearer "+token.Value)

	// Assert
	requireAuthError(t, err, "Token has expired")
	assert.Zero(t, f.store.Len())
}

func TestAuthenticator_TokenSignedWithOtherSecretIsRejected(t *testing.T) {
	// Arrange
	f := newAuthFixture(t)
	otherStore := auth.NewMemoryTokenStore()
	other := auth.NewTokenIssuer("another-secret-9876543210", time.Hour, otherStore, f.clock)
	token, err := other.Issue(domainAuth.Principal{Username: "admin", Role: domainAuth.RoleAdmin})
	require.NoError(t, err)

	// Act
	_, err = f.authenticator.Authenticate(context.Background(), "Bearer "+token.Value)

	// Assert
	requireAuthError(t, err, "Invalid token format: signature mismatch")
}
