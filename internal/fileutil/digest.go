package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// NewDigest returns the hash used for content digests.
func NewDigest() hash.Hash { return sha256.New() }

// FormatDigest renders h's sum as lower-case hex.
func FormatDigest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// FileDigest returns the content digest of the file at path.
func FileDigest(path string) (digest string, retErr error) {
	f, err := os.Open(path) //nolint:gosec // G304: paths come from the content store
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	h := NewDigest()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return FormatDigest(h), nil
}
