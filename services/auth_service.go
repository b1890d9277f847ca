package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/examstack/examstack-api/model"
	"github.com/examstack/examstack-api/utils/auth"
)

// AuthService orchestrates signup, login, refresh, logout and the
// password-reset flows. It owns no state beyond its collaborators;
// every operation is an independent round-trip against the store.
type AuthService struct {
	db        *gorm.DB
	issuer    *auth.TokenIssuer
	blacklist *auth.BlacklistService
	mailer    Mailer
	adminCode string
}

// NewAuthService creates a new auth service. The mailer may be nil, in
// which case reset notifications are skipped (and logged).
func NewAuthService(db *gorm.DB, issuer *auth.TokenIssuer, blacklist *auth.BlacklistService, mailer Mailer, adminCode string) *AuthService {
	return &AuthService{
		db:        db,
		issuer:    issuer,
		blacklist: blacklist,
		mailer:    mailer,
		adminCode: adminCode,
	}
}

// SignupInput carries a validated signup request.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	AdminCode string
}

// Signup registers a new user. Supplying the configured admin code
// creates the user with the admin flag set; supplying a wrong code
// rejects the whole signup.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("signup: lookup by email: %w", err)
	}

	err = s.db.WithContext(ctx).Where("username = ?", in.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("signup: lookup by username: %w", err)
	}

	isAdmin := false
	if in.AdminCode != "" {
		if s.adminCode == "" || in.AdminCode != s.adminCode {
			return nil, ErrInvalidAdminCode
		}
		isAdmin = true
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      isAdmin,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Concurrent signups race past the lookups above; the unique
		// indexes pick exactly one winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	return &user, nil
}

// LoginResult carries the token pair issued on a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	IsAdmin      bool
	User         *model.User
}

// Login verifies credentials and issues an access/refresh token pair.
// An unknown email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup by email: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, _, err := s.issuer.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: generate access token: %w", err)
	}

	refreshToken, _, err := s.issuer.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: generate refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IsAdmin:      user.IsAdmin,
		User:         &user,
	}, nil
}

// Refresh validates the refresh token and mints a new access token for
// the same user. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.ValidateToken(refreshToken, model.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("refresh: ledger lookup: %w", err)
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	accessToken, _, err := s.issuer.GenerateAccessToken(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("refresh: generate access token: %w", err)
	}

	return accessToken, nil
}

// LogoutResult reports which revocations took effect. A failed
// refresh-token revocation never rolls back the access revocation.
type LogoutResult struct {
	AccessRevoked  bool
	RefreshRevoked bool
	RefreshErr     error
}

// Logout revokes the caller's access token by JTI and, when a refresh
// token is supplied, best-effort revokes that too.
func (s *AuthService) Logout(ctx context.Context, accessJTI string, userID uint, refreshToken string) (*LogoutResult, error) {
	if err := s.blacklist.Revoke(ctx, accessJTI, model.TokenTypeAccess, userID); err != nil {
		return nil, fmt.Errorf("logout: revoke access token: %w", err)
	}

	result := &LogoutResult{AccessRevoked: true}

	if refreshToken != "" {
		claims, err := s.issuer.ValidateToken(refreshToken, model.TokenTypeRefresh)
		if err != nil {
			result.RefreshErr = err
			return result, nil
		}
		if err := s.blacklist.Revoke(ctx, claims.ID, model.TokenTypeRefresh, claims.UserID); err != nil {
			result.RefreshErr = err
			return result, nil
		}
		result.RefreshRevoked = true
	}

	return result, nil
}

// RequestPasswordReset issues a reset token for the user, persists it
// with its expiry on the user row and dispatches a notification. Mail
// failure is logged, never surfaced: the token is already durable.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("password reset: lookup by email: %w", err)
	}

	token, expiresAt, err := s.issuer.GenerateResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("password reset: generate token: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("password reset: store token: %w", err)
	}

	if s.mailer == nil {
		log.Printf("no mailer configured, skipping reset notification for user %d", user.ID)
		return nil
	}
	if err := s.mailer.SendPasswordResetEmail(user.Email, token, user.Username); err != nil {
		log.Printf("password reset mail dispatch failed for user %d: %v", user.ID, err)
	}

	return nil
}

// ConfirmPasswordReset sets a new password for the user identified by
// the reset token. The signed token must verify AND match the token
// currently stored on the user row, whose own expiry must not have
// passed; the stored pair is cleared in the same update that writes
// the new hash, consuming the token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, ok := s.issuer.VerifyResetToken(token)
	if !ok {
		return ErrInvalidResetToken
	}

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("password reset: lookup user: %w", err)
	}

	if !user.HasPendingReset() || *user.ResetToken != token || user.ResetExpired() {
		return ErrInvalidResetToken
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash":          hashedPassword,
		"reset_token":            nil,
		"reset_token_expires_at": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("password reset: update password: %w", err)
	}

	return nil
}
