package auth

import (
	"context"
	"time"
)

// RoleAdmin is the only role the service issues today
const RoleAdmin = "admin"

// User is a stored service account
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Principal is the authenticated caller attached to a request
type Principal struct {
	Username string
	Role     string
	// Method is "Basic" or "Bearer"
	Method string
}

// UserRepository persists service accounts
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// Token is an issued bearer token
type Token struct {
	ID        string
	Value     string
	Principal Principal
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenStore keeps the set of currently valid tokens.
// A signed token that is absent from the store is rejected.
type TokenStore interface {
	Add(token *Token)
	Get(value string) (*Token, bool)
	Remove(value string)
	// PurgeExpired drops every token expired at now and returns how many were removed.
	PurgeExpired(now time.Time) int
	Len() int
}
