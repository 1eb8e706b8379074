// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the sole entity in the system, representing one registered identity.
type User struct {
	ID            uuid.UUID       // The unique identifier for the user, assigned by the store.
	Email         string          // The user's login identifier. Matched case-sensitively, exact match only.
	PasswordHash  string          // The bcrypt hash of the user's password. The plaintext is never stored.
	BiometricKeys []*BiometricKey // The user's enrolled biometric keys, in enrollment order. Empty until enrollment.
	CreatedAt     time.Time       // Timestamp of when this user account was created, set by the store.
	UpdatedAt     time.Time       // Timestamp of the last modification to this user's data, set by the store.
}

// BiometricKey is one enrolled biometric credential.
// A user may enroll zero, one, or more keys; each key belongs to exactly one user globally.
type BiometricKey struct {
	ID          uuid.UUID // The unique ID for this specific enrollment record.
	UserID      uuid.UUID // Links this key to the User it belongs to.
	KeyHash     string    // The slow, salted bcrypt hash of the key material, used for final verification.
	Fingerprint string    // A fast, deterministic keyed digest of the key material, used only for lookup and uniqueness.
	CreatedAt   time.Time // Timestamp of when this key was enrolled.
}

// HasBiometricKeys reports whether the user has enrolled at least one biometric key.
func (u *User) HasBiometricKeys() bool {
	return len(u.BiometricKeys) > 0
}
