package adapter

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestBytes returns the hex-encoded SHA-256 digest of a buffer. It is the
// canonical fingerprint used in patch diagnostics and log output.
func DigestBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
