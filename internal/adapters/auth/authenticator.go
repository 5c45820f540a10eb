package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// Authenticator resolves an Authorization header into a principal.
// Basic credentials are checked against the users table; bearer tokens must carry a
// valid signature and still be present in the token store.
type Authenticator struct {
	users  domainAuth.UserRepository
	issuer *TokenIssuer
	store  domainAuth.TokenStore
	clock  shared.Clock
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(users domainAuth.UserRepository, issuer *TokenIssuer, store domainAuth.TokenStore, clock shared.Clock) *Authenticator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Authenticator{
		users:  users,
		issuer: issuer,
		store:  store,
		clock:  clock,
	}
}

// Authenticate checks header and returns the caller
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*domainAuth.Principal, error) {
	switch {
	case header == "":
		return nil, shared.NewAuthenticationError("No authorization header provided")
	case strings.HasPrefix(header, "Basic "):
		username, password, ok := parseBasic(strings.TrimPrefix(header, "Basic "))
		if !ok {
			return nil, shared.NewAuthenticationError("Invalid credentials")
		}
		user, err := a.VerifyCredentials(ctx, username, password)
		if err != nil {
			return nil, err
		}
		return &domainAuth.Principal{Username: user.Username, Role: user.Role, Method: "Basic"}, nil
	case strings.HasPrefix(header, "Bearer "):
		return a.authenticateBearer(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	default:
		return nil, shared.NewAuthenticationError("Invalid authentication method")
	}
}

// VerifyCredentials checks a username/password pair against the stored bcrypt hash
func (a *Authenticator) VerifyCredentials(ctx context.Context, username, password string) (*domainAuth.User, error) {
	if username == "" || password == "" {
		return nil, shared.NewAuthenticationError("Invalid credentials")
	}

	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		var notFound *shared.NotFoundError
		if errors.As(err, &notFound) {
			return nil, shared.NewAuthenticationError("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewAuthenticationError("Invalid credentials")
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (a *Authenticator) Login(ctx context.Context, username, password string) (*domainAuth.Token, error) {
	user, err := a.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return a.issuer.Issue(domainAuth.Principal{Username: user.Username, Role: user.Role})
}

// Logout drops a bearer token so later requests carrying it are rejected
func (a *Authenticator) Logout(header string) {
	if value, ok := strings.CutPrefix(header, "Bearer "); ok {
		a.issuer.Revoke(strings.TrimSpace(value))
	}
}

// TokenTTL is the lifetime of tokens issued by Login
func (a *Authenticator) TokenTTL() time.Duration {
	return a.issuer.TTL()
}

func (a *Authenticator) authenticateBearer(value string) (*domainAuth.Principal, error) {
	if value == "" {
		return nil, shared.NewAuthenticationError("No token provided")
	}

	claims, err := a.issuer.verify(value)
	if err != nil {
		return nil, shared.NewAuthenticationError(fmt.Sprintf("Invalid token format: %s", err))
	}

	if !a.clock.Now().Before(time.Unix(claims.Expires, 0)) {
		a.store.Remove(value)
		return nil, shared.NewAuthenticationError("Token has expired")
	}

	token, ok := a.store.Get(value)
	if !ok {
		return nil, shared.NewAuthenticationError("Token not found or has been invalidated")
	}

	principal := token.Principal
	principal.Method = "Bearer"
	return &principal, nil
}

func parseBasic(encoded string) (username, password string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(raw), ":")
}
