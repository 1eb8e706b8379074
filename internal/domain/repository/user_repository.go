// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"biopass/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for credential persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert violates the email unique index.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateFingerprint is returned when an insert violates the biometric fingerprint unique index.
	ErrDuplicateFingerprint = errors.New("biometric fingerprint already registered")
)

// UserRepository defines the standard operations for credential persistence.
// The application layer will depend on this interface, not the concrete implementation.
//
// Uniqueness of email and of biometric fingerprints is guaranteed by the
// store's unique indexes, not by callers: a check-then-insert sequence can
// always race, so Create and AppendBiometricKey report the duplicate errors
// above when the store rejects the write.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, including enrolled biometric keys.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address. Matching is case-sensitive.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByBiometricFingerprint retrieves the user owning a biometric key with the given fingerprint.
	FindByBiometricFingerprint(ctx context.Context, fingerprint string) (*entity.User, error)

	// Create persists a new user entity, including any initial biometric keys.
	Create(ctx context.Context, user *entity.User) error

	// AppendBiometricKey enrolls an additional biometric key for an existing user.
	AppendBiometricKey(ctx context.Context, key *entity.BiometricKey) error
}
