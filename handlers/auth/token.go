package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/examstack/examstack-api/services"
	authutil "github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/middleware"
	"github.com/examstack/examstack-api/utils/response"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse represents a token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// LogoutRequest optionally carries a refresh token to revoke alongside
// the access token the request was authenticated with.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LogoutResponse reports the revocation outcome. RefreshError is set
// when a supplied refresh token could not be revoked; the access
// revocation stands regardless.
type LogoutResponse struct {
	Status         string `json:"status"`
	AccessRevoked  bool   `json:"access_revoked"`
	RefreshRevoked bool   `json:"refresh_revoked"`
	RefreshError   string `json:"refresh_error,omitempty"`
}

// RefreshToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	accessToken, err := h.svc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, authutil.ErrExpiredToken):
			return response.Unauthorized(c, "Refresh token has expired")
		case errors.Is(err, authutil.ErrWrongTokenType):
			return response.Unauthorized(c, "Invalid token type")
		case errors.Is(err, services.ErrTokenRevoked):
			return response.Unauthorized(c, "Token has been revoked")
		case errors.Is(err, authutil.ErrInvalidToken), errors.Is(err, authutil.ErrInvalidClaims):
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	return response.Success(c, RefreshResponse{AccessToken: accessToken})
}

// Logout revokes the caller's access token and best-effort revokes a
// refresh token supplied in the body.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok {
		return response.BadRequest(c, "No token ID found")
	}

	// Body is optional; an unparsable body just means no refresh token.
	var req LogoutRequest
	_ = c.BodyParser(&req)

	result, err := h.svc.Logout(c.Context(), jti, userID, req.RefreshToken)
	if err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	res := LogoutResponse{
		Status:         "ok",
		AccessRevoked:  result.AccessRevoked,
		RefreshRevoked: result.RefreshRevoked,
	}
	if result.RefreshErr != nil {
		res.RefreshError = result.RefreshErr.Error()
	}

	return response.Success(c, res)
}
