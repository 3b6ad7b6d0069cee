package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for session tokens.
type Claims struct {
	MemberID uint64 `json:"member_id"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly minted session token.
type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for issuing and verifying session tokens.
// Tokens are self-contained: verifying one needs no storage lookup.
type TokenService interface {
	// Issue mints a signed token for the member, valid for the configured TTL.
	Issue(memberID uint64) (*IssuedToken, error)

	// Verify checks signature and expiry and returns the embedded claims.
	// Failures are domainerrors.ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
	Verify(token string) (*Claims, error)

	// TTL returns the configured token lifetime.
	TTL() time.Duration
}
