package scanner

import (
	"encoding/hex"

	"wallpaper-catalog/internal/filesystem"

	"golang.org/x/crypto/blake2b"
)

// Sign returns the content signature of the file at path: the lower-case
// hex BLAKE2b-256 digest of its bytes. Identical bytes always give the same
// signature regardless of name or location.
func Sign(path string) (string, error) {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	return SignBytes(data), nil
}

// SignBytes returns the content signature of data.
func SignBytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
