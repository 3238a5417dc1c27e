// Package credential hashes and verifies stored passwords.
//
// New credentials are bcrypt hashes. Records written by earlier versions
// hold either a tagged legacy digest or plaintext; both still verify so
// existing accounts keep working, and callers are told when a record
// should be rewritten.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

const (
	// LegacyTag prefixes digests produced by LegacyHash.
	LegacyTag = "hashed_"

	legacySalt = "cardapio_salt_2024"
)

// Scheme tells how a stored value was recognized.
type Scheme int

const (
	SchemeBcrypt Scheme = iota
	SchemeLegacyHash
	SchemePlaintext
)

func (s Scheme) String() string {
	switch s {
	case SchemeBcrypt:
		return "bcrypt"
	case SchemeLegacyHash:
		return "legacy_hash"
	case SchemePlaintext:
		return "plaintext"
	}
	return "unknown"
}

// NeedsMigration reports whether a value stored under s should be rehashed.
func (s Scheme) NeedsMigration() bool {
	return s != SchemeBcrypt
}

// Hash returns a bcrypt hash for a new credential.
func Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// LegacyHash reproduces the digest stored by the previous system: two
// 32-bit rolling checksums over salt+password+salt, one read forwards
// (x31) and one backwards (x37), rendered as fixed-width hex after the tag.
// It is not a secure hash.
func LegacyHash(password string) string {
	units := utf16.Encode([]rune(legacySalt + password + legacySalt))

	var fwd, bwd int32
	for _, c := range units {
		fwd = fwd*31 + int32(c)
	}
	for i := len(units) - 1; i >= 0; i-- {
		bwd = bwd*37 + int32(units[i])
	}
	return fmt.Sprintf("%s%08x%08x", LegacyTag, uint32(fwd), uint32(bwd))
}

// IsHashed reports whether stored is already a digest rather than plaintext.
func IsHashed(stored string) bool {
	return isBcrypt(stored) || strings.HasPrefix(stored, LegacyTag)
}

// Verify checks password against stored and reports which scheme matched.
func Verify(password, stored string) (bool, Scheme) {
	switch {
	case stored == "":
		return false, SchemePlaintext
	case isBcrypt(stored):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, SchemeBcrypt
	case strings.HasPrefix(stored, LegacyTag):
		return LegacyHash(password) == stored, SchemeLegacyHash
	}
	// plaintext records were stored inconsistently; accept either form
	ok := password == stored || LegacyHash(stored) == LegacyHash(password)
	return ok, SchemePlaintext
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
