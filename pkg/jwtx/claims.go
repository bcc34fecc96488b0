package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes, matching the simplejwt defaults the chama
// frontend was written against.
const (
	DefaultAccessTokenTTL  = 5 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// TokenTypeAccess is the only token type this package signs. Refresh tokens
// are opaque and never JWTs.
const TokenTypeAccess = "access"

// Claims are the access-token claims issued by the chama API.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is always "access"; kept so a token minted for another
	// purpose can never be replayed as a bearer token.
	TokenType string `json:"token_type"`

	// Username of the member the token was issued to.
	Username string `json:"username,omitempty"`

	// IsStaff grants the admin panel endpoints.
	IsStaff bool `json:"is_staff,omitempty"`
}

// NewAccessClaims builds minimally-correct access claims for a member.
func NewAccessClaims(
	userID, username string,
	isStaff bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: TokenTypeAccess,
		Username:  username,
		IsStaff:   isStaff,
	}
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTokenType rejects anything that is not an access token.
func (c *Claims) ValidateTokenType() error {
	if c.TokenType != TokenTypeAccess {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
