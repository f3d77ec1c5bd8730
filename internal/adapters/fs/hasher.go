package fs

import (
	"encoding/hex"
	"io"
	"os"

	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/crypto/sha3"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides content digests for contract files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeContentHash returns the Keccak-256 digest of the file's content as 0x followed by 64 lowercase hex characters.
// This is the validity key stored in cache records.
func (h *Hasher) ComputeContentHash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := sha3.NewLegacyKeccak256()
	if _, err := io.Copy(digest, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return "0x" + hex.EncodeToString(digest.Sum(nil)), nil
}
