package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"ciphera/internal/domain"
)

// Fingerprint returns a short hex fingerprint of opaque key bytes.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars). Empty
// input yields an empty fingerprint.
func Fingerprint(pub []byte) domain.Fingerprint {
	if len(pub) == 0 {
		return ""
	}
	sum := sha256.Sum256(pub)
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
