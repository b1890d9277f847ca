package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, VerifyPassword(hash, "correct horse battery staple"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	// Same plaintext, fresh salt, different hash.
	assert.NotEqual(t, first, second)
	require.NoError(t, VerifyPassword(first, "password123"))
	require.NoError(t, VerifyPassword(second, "password123"))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	err = VerifyPassword(hash, "password124")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestHashPassword_TooShort(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("shortarrow"[:7])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestIsPasswordValid(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPasswordValid("12345678"))
	assert.False(t, IsPasswordValid("1234567"))
}
