// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"biopass/config"
	domainerrors "biopass/internal/domain/errors"
	"biopass/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret   string        // Secret key for signing session tokens.
	tokenTTL time.Duration // Time-to-live for session tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
// A missing signing secret is a fatal startup condition.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt signing secret must be provided")
	}

	return &jwtService{
		secret:   cfg.SecretKey.Token,
		tokenTTL: cfg.TokenTTL(),
	}, nil
}

// Issue creates a new signed session token for a given user.
// The token carries subject, issued-at and expiry claims.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),            // Subject (who the token is for)
		"iat": now.Unix(),                 // Issued At
		"exp": now.Add(s.tokenTTL).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Validate checks the validity of a token string and extracts its claims.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("failed to parse token structure")
	}
	if !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token signature or expiry check failed")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected claims type")
	}

	subject, err := mapClaims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject claim missing")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject claim is not a valid user id")
	}

	claims := &service.Claims{UserID: userID}
	if issuedAt, err := mapClaims.GetIssuedAt(); err == nil && issuedAt != nil {
		claims.IssuedAt = issuedAt
	}
	if expiresAt, err := mapClaims.GetExpirationTime(); err == nil && expiresAt != nil {
		claims.ExpiresAt = expiresAt
	}

	return claims, nil
}

// TokenDuration returns the configured session token lifetime.
func (s *jwtService) TokenDuration() time.Duration {
	return s.tokenTTL
}
