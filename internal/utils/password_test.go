package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, NeedsRehash(hash, bcrypt.MinCost))
	assert.True(t, NeedsRehash(hash, bcrypt.MinCost+1))
}

func TestVerifyPasswordLegacyDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("museum"))
	legacy := hex.EncodeToString(sum[:])

	assert.True(t, VerifyPassword(legacy, "museum"))
	assert.False(t, VerifyPassword(legacy, "Museum"))
	assert.True(t, NeedsRehash(legacy, bcrypt.MinCost))
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "x"))
	assert.True(t, NeedsRehash("not-a-hash", bcrypt.MinCost))
}
