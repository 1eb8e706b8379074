package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"biopass/config"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Test correct credential
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect credential
	assert.False(t, hasher.Check("WrongPassword123!", hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	// Two hashes of the same input must differ; the salt is embedded per call.
	first, err := hasher.Hash("SameInput123!")
	assert.NoError(t, err)
	second, err := hasher.Hash("SameInput123!")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.True(t, hasher.Check("SameInput123!", first))
	assert.True(t, hasher.Check("SameInput123!", second))
}

func TestBcryptHasher_CheckDegenerateInputs(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("StrongPass123!")
	assert.NoError(t, err)

	// Empty plaintext never verifies.
	assert.False(t, hasher.Check("", hash))

	// Malformed hashes fail closed instead of erroring.
	assert.False(t, hasher.Check("StrongPass123!", "not_a_bcrypt_hash"))
	assert.False(t, hasher.Check("StrongPass123!", ""))
}

func TestBcryptHasher_HashEmptyCredential(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash("")
	assert.Error(t, err)
}

func TestBcryptHasher_CostFromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("StrongPass123!")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_ValidatePasswordStrength_NoPolicyConfigured(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	// Without a configured policy, any non-empty password is acceptable.
	assert.NoError(t, hasher.ValidatePasswordStrength("pw1"))
	assert.NoError(t, hasher.ValidatePasswordStrength("x"))
	assert.Error(t, hasher.ValidatePasswordStrength(""))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		PasswordStrength: &config.PasswordStrengthConfig{
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
		},
	}
	hasher := NewBcryptHasher(cfg)

	validPasswords := []string{
		"StrongSecret123",
		"MySecure@Pass1",
		"Complex#Secret9",
	}
	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"123", "must be at least 8 characters long"},
		{"UPPERONLY123", "must contain at least one lowercase letter"},
		{"loweronly123", "must contain at least one uppercase letter"},
		{"NoNumbersHere", "must contain at least one number"},
		{"MyPassword123", "contains forbidden words"},
		{"AdminUser123", "contains forbidden words"},
	}
	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr)
	}
}

func TestBcryptHasher_ValidatePasswordStrengthWithPolicy(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:      12,
			MaxLength:      32,
			RequireSpecial: true,
		},
	}
	hasher := NewBcryptHasher(cfg)

	assert.Error(t, hasher.ValidatePasswordStrength("Short1!"))
	assert.Error(t, hasher.ValidatePasswordStrength("NoSpecialChars1x"))
	assert.NoError(t, hasher.ValidatePasswordStrength("LongEnough!Okay1"))
}
