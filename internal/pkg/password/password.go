// Package password holds the password policy and the bcrypt hasher.
package password

import (
	"errors"
	"strings"
	"unicode"

	"github.com/goodspace/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinLength is the policy floor; MaxLength matches bcrypt's 72-byte input
	// limit so oversized inputs cannot be used to stall the hasher.
	MinLength = 8
	MaxLength = 72

	symbols = `!@#$%^&*()-_=+[]{};:'",.<>/?\|~` + "`"
)

// IsLegal reports whether the raw password satisfies the policy: length in
// [MinLength, MaxLength], at least one letter, one digit and one symbol, no
// whitespace, printable ASCII only. Pure and deterministic.
func IsLegal(raw string) bool {
	if len(raw) < MinLength || len(raw) > MaxLength {
		return false
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			return false
		case r < 0x21 || r > 0x7e:
			return false
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbols, r):
			hasSymbol = true
		}
	}
	return hasLetter && hasDigit && hasSymbol
}

// Hash computes a salted adaptive hash of the raw password. The returned
// string is self-describing (algorithm, cost and salt are embedded), so the
// work factor can be raised later without schema changes.
func Hash(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Matches verifies raw against the stored hash in constant time. A stored
// value that cannot be parsed surfaces as ErrMalformedHash; a plain mismatch
// is (false, nil).
func Matches(raw, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, domain.ErrMalformedHash
}
