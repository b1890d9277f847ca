package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examstack/examstack-api/model"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(JWTConfig{
		Secret:        "test-jwt-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "examstack-test",
	})
}

func TestTokenIssuer_GenerateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	token, jti, err := issuer.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := issuer.ValidateToken(token, model.TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "examstack-test", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_GenerateRefreshToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	token, jti, err := issuer.GenerateRefreshToken(7)
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token, model.TokenTypeRefresh)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, jti, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_FreshJTIPerToken(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	_, first, err := issuer.GenerateAccessToken(1)
	require.NoError(t, err)
	_, second, err := issuer.GenerateAccessToken(1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenIssuer_ValidateToken_WrongType(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	access, _, err := issuer.GenerateAccessToken(1)
	require.NoError(t, err)
	refresh, _, err := issuer.GenerateRefreshToken(1)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(access, model.TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = issuer.ValidateToken(refresh, model.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenIssuer_ValidateToken_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(JWTConfig{
		Secret:        "test-jwt-secret",
		Expiry:        -time.Second,
		RefreshExpiry: -time.Second,
		Issuer:        "examstack-test",
	})

	token, _, err := issuer.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token, model.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_ValidateToken_WrongSignature(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()
	other := NewTokenIssuer(JWTConfig{
		Secret:        "a-different-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "examstack-test",
	})

	token, _, err := other.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token, model.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_ValidateToken_Garbage(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	_, err := issuer.ValidateToken("not-a-jwt", model.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_ResetToken_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	token, expiresAt, err := issuer.GenerateResetToken(99)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(ResetTokenLifetime), expiresAt, 5*time.Second)

	userID, ok := issuer.VerifyResetToken(token)
	require.True(t, ok)
	assert.Equal(t, uint(99), userID)
}

func TestTokenIssuer_VerifyResetToken_NeverErrors(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "nope"},
		{name: "empty", token: ""},
		{name: "wrong signature", token: func() string {
			other := NewTokenIssuer(JWTConfig{Secret: "other", Issuer: "x"})
			tok, _, err := other.GenerateResetToken(5)
			require.NoError(t, err)
			return tok
		}()},
		{name: "access token is not a reset token", token: func() string {
			// Access tokens have no numeric-only subject claim.
			tok, _, err := issuer.GenerateAccessToken(5)
			require.NoError(t, err)
			return tok
		}()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID, ok := issuer.VerifyResetToken(tt.token)
			assert.False(t, ok)
			assert.Zero(t, userID)
		})
	}
}
