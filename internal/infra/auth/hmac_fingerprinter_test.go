package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopass/config"
)

func newTestFingerprinterConfig(pepper string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.FingerprintPepper = pepper

	return cfg
}

func TestHMACFingerprinter_Deterministic(t *testing.T) {
	fingerprinter, err := NewHMACFingerprinter(newTestFingerprinterConfig("test_pepper"))
	require.NoError(t, err)

	first := fingerprinter.Fingerprint("biometric-key-material")
	second := fingerprinter.Fingerprint("biometric-key-material")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestHMACFingerprinter_DistinctInputs(t *testing.T) {
	fingerprinter, err := NewHMACFingerprinter(newTestFingerprinterConfig("test_pepper"))
	require.NoError(t, err)

	assert.NotEqual(t,
		fingerprinter.Fingerprint("key-one"),
		fingerprinter.Fingerprint("key-two"),
	)
}

func TestHMACFingerprinter_PepperChangesDigest(t *testing.T) {
	first, err := NewHMACFingerprinter(newTestFingerprinterConfig("pepper_one"))
	require.NoError(t, err)
	second, err := NewHMACFingerprinter(newTestFingerprinterConfig("pepper_two"))
	require.NoError(t, err)

	assert.NotEqual(t,
		first.Fingerprint("same-key"),
		second.Fingerprint("same-key"),
	)
}

func TestHMACFingerprinter_MissingPepper(t *testing.T) {
	_, err := NewHMACFingerprinter(newTestFingerprinterConfig(""))
	assert.Error(t, err)
}
