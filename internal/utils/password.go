package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash with a plain password. Accounts
// imported from the old desk still carry an unsalted SHA-256 hex digest;
// those are checked in constant time and flagged by NeedsRehash.
func VerifyPassword(hash, plain string) bool {
	if isLegacyDigest(hash) {
		sum := sha256.Sum256([]byte(plain))
		want := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(want)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash should be replaced by a fresh bcrypt
// hash after a successful login.
func NeedsRehash(hash string, cost int) bool {
	if isLegacyDigest(hash) {
		return true
	}
	c, err := bcrypt.Cost([]byte(hash))
	return err != nil || c < cost
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
