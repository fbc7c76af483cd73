package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// BucketKeyLength is the number of hex characters kept from the digest (24 bytes).
const BucketKeyLength = 48

const bucketSeparator = "|"

// SHA256Hex returns a trimmed-input SHA-256 hash encoded in hex.
func SHA256Hex(input string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(input)))
	return hex.EncodeToString(sum[:])
}

// BucketKey derives the opaque rate-limit bucket for ip and the ordered key parts.
// The salt is appended last so the key cannot be recomputed without it.
func BucketKey(salt, ip string, keyParts ...string) string {
	parts := make([]string, 0, len(keyParts)+2)
	parts = append(parts, ip)
	parts = append(parts, keyParts...)
	parts = append(parts, salt)

	sum := sha256.Sum256([]byte(strings.Join(parts, bucketSeparator)))
	return hex.EncodeToString(sum[:])[:BucketKeyLength]
}
