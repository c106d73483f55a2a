package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// ComputeSHA256 returns the lowercase hex SHA-256 digest of a file's raw
// bytes. No normalization of whitespace or line endings is applied; the
// digest is byte-exact by contract.
func ComputeSHA256(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyChecksum compares a file's actual digest to the declared one. It
// returns the actual digest either way so mismatch diagnostics can name both.
func VerifyChecksum(path, declared string) (actual string, match bool, err error) {
	actual, err = ComputeSHA256(path)
	if err != nil {
		return "", false, err
	}
	return actual, actual == declared, nil
}
