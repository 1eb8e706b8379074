package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the session tokens.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a new signed, time-bounded session token asserting the
	// holder is the given user. Signing-key misconfiguration is a startup
	// failure of the concrete implementation, not a per-call error.
	Issue(userID uuid.UUID) (string, error)

	// Validate checks the validity of a token string and returns its claims.
	// Token validation belongs to the delivery layer (auth middleware), not
	// to the registration/login flows.
	Validate(tokenString string) (*Claims, error)

	// TokenDuration returns the configured session token lifetime.
	TokenDuration() time.Duration
}
