package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Fingerprint returns a stable, collision-resistant digest of a request
// tuple, hex-encoded. Parts are joined with a NUL separator so distinct
// tuples can never collapse to the same byte stream. A cryptographic hash
// is used instead of a runtime hash because keys must be identical across
// runs and processes.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		_, _ = io.WriteString(h, p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
