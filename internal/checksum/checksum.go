// Package checksum fingerprints raw publish payloads.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Publish
// acknowledgments and journal entries carry this digest so repeated
// publishes of the same payload are recognizable.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
