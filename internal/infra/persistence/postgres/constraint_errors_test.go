package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domainerrors "biopass/internal/domain/errors"
)

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(
		errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueConstraintViolation(errors.New("connection refused")))
}

func TestViolatesBiometricFingerprint(t *testing.T) {
	assert.True(t, violatesBiometricFingerprint(
		errors.New(`ERROR: duplicate key value violates unique constraint "biometric_keys_fingerprint_key"`)))
	assert.False(t, violatesBiometricFingerprint(
		errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`)))
}

func TestTranslateStoreError_DeadlineExceeded(t *testing.T) {
	err := translateStoreError(context.Background(), context.DeadlineExceeded, "failed to find user by id")

	assert.ErrorIs(t, err, domainerrors.ErrTimeout)
}

func TestTranslateStoreError_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := translateStoreError(ctx, errors.New("driver: bad connection"), "failed to create user")

	assert.ErrorIs(t, err, domainerrors.ErrTimeout)
}

func TestTranslateStoreError_GenericFailure(t *testing.T) {
	err := translateStoreError(context.Background(), errors.New("connection refused"), "failed to create user")

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.ErrorCode())
}
