package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/examstack/examstack-api/model"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrInvalidClaims  = errors.New("invalid token claims")
)

// ResetTokenLifetime is the fixed lifetime of password reset tokens.
const ResetTokenLifetime = time.Hour

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims represents JWT claims
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies the signed tokens used by the auth
// workflows. It never consults the revocation ledger; composing the
// two checks is the orchestrator's job.
type TokenIssuer struct {
	config JWTConfig
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(config JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		config: config,
	}
}

// GenerateAccessToken generates a new short-lived access token with a
// fresh JTI, returning the signed token and its JTI.
func (t *TokenIssuer) GenerateAccessToken(userID uint) (string, string, error) {
	return t.generate(userID, model.TokenTypeAccess, t.config.Expiry)
}

// GenerateRefreshToken generates a new long-lived refresh token with a
// fresh JTI, returning the signed token and its JTI.
func (t *TokenIssuer) GenerateRefreshToken(userID uint) (string, string, error) {
	return t.generate(userID, model.TokenTypeRefresh, t.config.RefreshExpiry)
}

func (t *TokenIssuer) generate(userID uint, tokenType string, lifetime time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(t.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, jti, nil
}

// ValidateToken verifies signature and expiry and checks that the
// embedded token type matches requiredType ("access" or "refresh").
func (t *TokenIssuer) ValidateToken(tokenString, requiredType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(t.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != requiredType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// GenerateResetToken generates a signed password reset token for the
// user with a fixed one hour lifetime. It returns the signed token and
// its expiry so the caller can persist both.
func (t *TokenIssuer) GenerateResetToken(userID uint) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ResetTokenLifetime)

	claims := jwt.RegisteredClaims{
		Subject:   formatUserID(userID),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    t.config.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(t.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

// VerifyResetToken verifies a password reset token and returns the
// embedded user ID. Any signature or expiry failure yields (0, false);
// no error crosses this boundary.
func (t *TokenIssuer) VerifyResetToken(tokenString string) (uint, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(t.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, false
	}

	userID, err := parseUserID(claims.Subject)
	if err != nil {
		return 0, false
	}

	return userID, true
}
