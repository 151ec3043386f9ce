// Package code generates one-time verification codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const digits = "0123456789"

// Generate returns an n-character code drawn from a digits-only alphabet so
// it can be read from a mail client and typed by a human. Each character is
// drawn independently from crypto/rand.
func Generate(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b[i] = digits[idx.Int64()]
	}
	return string(b), nil
}
