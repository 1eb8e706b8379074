package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	domainerrors "biopass/internal/domain/errors"
)

// Helper functions for PostgreSQL error checking and translation.
// Raw driver errors never leave this package; everything is mapped to the
// repository/domain error vocabulary before returning.

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// The translated-error path above covers GORM with TranslateError enabled;
	// fall back to the PostgreSQL unique_violation message otherwise.
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "23505")
}

// violatesBiometricFingerprint reports whether a unique violation fired on the
// biometric fingerprint index rather than the email index.
func violatesBiometricFingerprint(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "fingerprint") ||
		strings.Contains(errMsg, "biometric_keys")
}

// translateStoreError maps a non-conflict store failure onto the closed error
// set: context expiry becomes Timeout, everything else StoreUnavailable.
func translateStoreError(ctx context.Context, err error, details string) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return domainerrors.ErrTimeout.WrapMessage(details)
	}

	return domainerrors.NewStoreExecuteError(err, details)
}
