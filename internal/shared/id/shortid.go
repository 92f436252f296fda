// Package id generates Stripe-style prefixed short identifiers used as the
// public IDs of all API resources. Internal numeric IDs never leave the API.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default random suffix length.
	DefaultLength = 12
)

// Resource prefixes.
const (
	PrefixUser          = "usr"
	PrefixPackage       = "pkg"
	PrefixCoupon        = "cpn"
	PrefixSubscription  = "sub"
	PrefixCategory      = "cat"
	PrefixTrack         = "trk"
	PrefixProgram       = "prg"
	PrefixCustomProgram = "cpr"
	PrefixSession       = "ses"
	PrefixNotification  = "ntf"
	PrefixPayment       = "pay"
)

// Generate creates a cryptographically random base62 ID of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}

// MustGenerate panics when the random source fails.
func MustGenerate(length int) string {
	s, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return s
}

// GenerateWithPrefix creates an ID in the form "prefix_randomsuffix".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	s, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

// MustGenerateWithPrefix panics when the random source fails.
func MustGenerateWithPrefix(prefix string, length int) string {
	s, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidatePrefix checks that sid is non-empty and carries the expected prefix.
func ValidatePrefix(sid, prefix string) error {
	if sid == "" {
		return fmt.Errorf("id is empty")
	}
	if !strings.HasPrefix(sid, prefix+"_") {
		return fmt.Errorf("id %q does not have prefix %q", sid, prefix)
	}
	if len(sid) <= len(prefix)+1 {
		return fmt.Errorf("id %q has no suffix", sid)
	}
	return nil
}
