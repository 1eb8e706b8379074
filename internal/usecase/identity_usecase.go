// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterStandardInput defines the data required to register with a password credential.
type RegisterStandardInput struct {
	Email    string
	Password string
}

// RegisterWithBiometricInput defines the data required to register with a
// password credential plus an initial biometric key.
type RegisterWithBiometricInput struct {
	Email        string
	Password     string
	BiometricKey string
}

// LoginStandardInput defines the data required for a password login.
type LoginStandardInput struct {
	Email    string
	Password string
}

// LoginBiometricInput defines the data required for a biometric login.
type LoginBiometricInput struct {
	BiometricKey string
}

// EnrollBiometricInput defines the data required to enroll an additional biometric key.
type EnrollBiometricInput struct {
	UserID       uuid.UUID
	BiometricKey string
}

// --- Output DTOs ---
// Outputs deliberately carry no credential material: hashes never cross this boundary.

// RegisterOutput returns the newly created user's non-sensitive information.
type RegisterOutput struct {
	UserID    uuid.UUID
	Email     string
	CreatedAt time.Time
}

// LoginOutput returns the issued session token after a successful authentication.
type LoginOutput struct {
	Token string
}

// ProfileOutput returns the authenticated user's non-sensitive information.
type ProfileOutput struct {
	UserID            uuid.UUID
	Email             string
	BiometricKeyCount int
	CreatedAt         time.Time
}

// IdentityUsecase defines the interface for registration and authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
//
// Every operation returns either a success payload or one of the closed set of
// domain error kinds; transport-specific and store-specific types never cross
// this boundary in either direction.
type IdentityUsecase interface {
	// RegisterStandard creates a new user with a password credential.
	RegisterStandard(ctx context.Context, input *RegisterStandardInput) (*RegisterOutput, error)

	// RegisterWithBiometric creates a new user with a password credential and one enrolled biometric key.
	RegisterWithBiometric(ctx context.Context, input *RegisterWithBiometricInput) (*RegisterOutput, error)

	// LoginStandard authenticates by email and password and issues a session token.
	LoginStandard(ctx context.Context, input *LoginStandardInput) (*LoginOutput, error)

	// LoginBiometric authenticates by biometric key and issues a session token.
	LoginBiometric(ctx context.Context, input *LoginBiometricInput) (*LoginOutput, error)

	// EnrollBiometric enrolls an additional biometric key for an existing user.
	EnrollBiometric(ctx context.Context, input *EnrollBiometricInput) error

	// GetProfile returns the authenticated user's non-sensitive profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
}
