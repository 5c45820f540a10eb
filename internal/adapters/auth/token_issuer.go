package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// tokenPrefix marks the token format version
const tokenPrefix = "pst"

var (
	errMalformedToken = fmt.Errorf("malformed token")
	errBadSignature   = fmt.Errorf("signature mismatch")
)

// tokenClaims is the signed payload
type tokenClaims struct {
	ID       string `json:"jti"`
	Username string `json:"sub"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
	Expires  int64  `json:"exp"`
}

// TokenIssuer signs bearer tokens and records them in the token store.
// Format: pst.<base64url(json-claims)>.<base64url(hmac-sha256)>
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	store  domainAuth.TokenStore
	clock  shared.Clock
}

// NewTokenIssuer creates a new issuer. clock may be nil to use the system clock.
func NewTokenIssuer(secret string, ttl time.Duration, store domainAuth.TokenStore, clock shared.Clock) *TokenIssuer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		clock:  clock,
	}
}

// TTL is the lifetime of every issued token
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for principal and adds it to the store
func (i *TokenIssuer) Issue(principal domainAuth.Principal) (*domainAuth.Token, error) {
	now := i.clock.Now()
	claims := tokenClaims{
		ID:       uuid.NewString(),
		Username: principal.Username,
		Role:     principal.Role,
		IssuedAt: now.Unix(),
		Expires:  now.Add(i.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token claims: %w", err)
	}
	payloadB64 := base64.RawURLEncoding.EncodeToString(payload)

	token := &domainAuth.Token{
		ID:    claims.ID,
		Value: tokenPrefix + "." + payloadB64 + "." + i.sign(payloadB64),
		Principal: domainAuth.Principal{
			Username: principal.Username,
			Role:     principal.Role,
			Method:   "Bearer",
		},
		IssuedAt:  time.Unix(claims.IssuedAt, 0),
		ExpiresAt: time.Unix(claims.Expires, 0),
	}
	i.store.Add(token)
	return token, nil
}

// Revoke removes a token from the store; unknown tokens are ignored
func (i *TokenIssuer) Revoke(value string) {
	i.store.Remove(value)
}

// verify checks format and signature and returns the decoded claims.
// Expiry is left to the caller.
func (i *TokenIssuer) verify(value string) (*tokenClaims, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 3 || parts[0] != tokenPrefix {
		return nil, errMalformedToken
	}

	if !hmac.Equal([]byte(parts[2]), []byte(i.sign(parts[1]))) {
		return nil, errBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errMalformedToken
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errMalformedToken
	}
	return &claims, nil
}

func (i *TokenIssuer) sign(payloadB64 string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(payloadB64))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
