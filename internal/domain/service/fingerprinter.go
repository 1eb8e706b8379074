package service

// Fingerprinter computes a fast, deterministic, non-reversible digest of
// biometric key material. Fingerprints exist solely to locate candidate
// matches and to enforce global uniqueness through the store's unique index;
// they are never sufficient to authenticate. The salted credential hash is
// always re-verified after a fingerprint match.
type Fingerprinter interface {
	// Fingerprint returns the keyed digest of the given biometric key material.
	// The same input always yields the same output for one deployment.
	Fingerprint(biometricKey string) string
}
