package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpass123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)
	assert.NotContains(t, hash, "testpass123")

	// salted: same input, different digests
	hash2, err := HashPassword("testpass123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("testpass123", 99)
	require.NoError(t, err)
	assert.True(t, CheckPassword("testpass123", hash))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("testpass123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword("testpass123", hash))
	assert.False(t, CheckPassword("wrongpass123", hash))
	assert.False(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("testpass123", "not-a-hash"))
}
