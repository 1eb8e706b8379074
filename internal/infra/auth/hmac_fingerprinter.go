package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"

	"biopass/config"
	"biopass/internal/domain/service"
)

// hmacFingerprinter is a concrete implementation of the Fingerprinter interface
// using HMAC-SHA256 with a process-wide pepper.
//
// Biometric key hashes are salted and therefore non-deterministic, which makes
// them useless for lookup. The fingerprint is the deterministic counterpart:
// the store keeps a unique index on it to enforce global uniqueness and to
// locate the candidate user during biometric login. It is never sufficient to
// authenticate; the salted hash is always re-verified after a fingerprint match.
type hmacFingerprinter struct {
	pepper []byte
}

// NewHMACFingerprinter is the constructor for hmacFingerprinter.
// A missing pepper is a fatal startup condition, not a per-call error.
func NewHMACFingerprinter(cfg *config.Config) (service.Fingerprinter, error) {
	if cfg.SecretKey.FingerprintPepper == "" {
		return nil, errors.New("fingerprint pepper must be provided")
	}

	return &hmacFingerprinter{pepper: []byte(cfg.SecretKey.FingerprintPepper)}, nil
}

// Fingerprint returns the hex-encoded HMAC-SHA256 digest of the key material.
func (f *hmacFingerprinter) Fingerprint(biometricKey string) string {
	mac := hmac.New(sha256.New, f.pepper)
	mac.Write([]byte(biometricKey))

	return hex.EncodeToString(mac.Sum(nil))
}
