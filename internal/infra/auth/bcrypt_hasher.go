// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"biopass/config"
	domainerrors "biopass/internal/domain/errors"
	"biopass/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordLength = 64
)

// defaultForbiddenWords are rejected as password substrings regardless of policy.
var defaultForbiddenWords = []string{"password", "biopass", "admin", "123456", "qwerty"}

// bcryptHasher is a concrete implementation of the CredentialHasher interface using bcrypt.
// The same hasher serves password and biometric key material; bcrypt embeds a
// per-call random salt in its output, so hashing is intentionally non-deterministic.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.CredentialHasher interface.
func NewBcryptHasher(cfg *config.Config) service.CredentialHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		strength = cfg.PasswordStrength
	}

	return &bcryptHasher{cost: cost, strength: strength}
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost factor.
// Lower costs are useful in tests; production cost comes from config.
func NewBcryptHasherWithCost(cost int) service.CredentialHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from plaintext credential material using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domainerrors.ErrHashFailed.WrapMessage("cannot hash empty credential")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", domainerrors.ErrHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares plaintext credential material with a bcrypt hash.
// Empty plaintext and malformed hashes both return false; no error ever
// escapes here, so a broken stored hash is indistinguishable from a wrong
// credential to the caller.
func (h *bcryptHasher) Check(plaintext, hash string) bool {
	if plaintext == "" {
		// bcrypt would still report a mismatch, but short-circuiting keeps the
		// contract explicit.
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	// err is nil if the credential and hash match.
	return err == nil
}

// ValidatePasswordStrength checks a candidate password against the configured policy.
// The policy is opt-in: without a passwordStrength config section, any
// non-empty password is accepted.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if password == "" {
		return domainerrors.ErrInvalidInput.WrapMessage("password must not be empty")
	}
	if h.strength == nil {
		return nil
	}

	minLength := defaultMinPasswordLength
	maxLength := defaultMaxPasswordLength
	if h.strength.MinLength > 0 {
		minLength = h.strength.MinLength
	}
	if h.strength.MaxLength > 0 {
		maxLength = h.strength.MaxLength
	}
	requireUpper := h.strength.RequireUppercase
	requireLower := h.strength.RequireLowercase
	requireNumbers := h.strength.RequireNumbers
	requireSpecial := h.strength.RequireSpecial

	if len(password) < minLength {
		return domainerrors.ErrInvalidInput.WrapMessage("password must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	if len(password) > maxLength {
		return domainerrors.ErrInvalidInput.WrapMessage("password must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	if requireUpper && !hasUppercase(password) {
		return domainerrors.ErrInvalidInput.WrapMessage("password must contain at least one uppercase letter")
	}
	if requireLower && !hasLowercase(password) {
		return domainerrors.ErrInvalidInput.WrapMessage("password must contain at least one lowercase letter")
	}
	if requireNumbers && !hasNumbers(password) {
		return domainerrors.ErrInvalidInput.WrapMessage("password must contain at least one number")
	}
	if requireSpecial && !hasSpecialChars(password) {
		return domainerrors.ErrInvalidInput.WrapMessage("password must contain at least one special character")
	}
	if containsForbiddenWords(password, defaultForbiddenWords) {
		return domainerrors.ErrInvalidInput.WrapMessage("password contains forbidden words")
	}

	return nil
}

func hasUppercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func hasLowercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLower)
}

func hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func hasSpecialChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsForbiddenWords(password string, words []string) bool {
	lowered := strings.ToLower(password)
	for _, word := range words {
		if strings.Contains(lowered, word) {
			return true
		}
	}

	return false
}
