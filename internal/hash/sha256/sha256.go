// Package sha256 digests archived snapshots.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// Hasher implements brand.Hasher using SHA-256.
type Hasher struct{}

var _ brand.Hasher = (*Hasher)(nil)

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the lowercase hex digest of data.
func (h *Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
