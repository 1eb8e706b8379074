// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// CredentialHasher defines the interface for credential hashing and verification.
// It is used for both passwords and biometric key material.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type CredentialHasher interface {
	// Hash generates a salted, one-way hash from plaintext credential material.
	Hash(plaintext string) (string, error)

	// Check compares plaintext credential material with a stored hash.
	// An empty plaintext or a malformed hash simply yields false; callers can
	// never distinguish a malformed hash from a wrong credential.
	Check(plaintext, hash string) bool

	// ValidatePasswordStrength checks a candidate password against the
	// configured strength policy. Only applied at registration time.
	ValidatePasswordStrength(password string) error
}
