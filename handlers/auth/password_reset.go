package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/examstack/examstack-api/services"
	authutil "github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/response"
)

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset with token
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ForgotPassword handles a password reset request. Unknown emails get
// a 404; the notification is dispatched out of band and its failure
// does not fail the request.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.svc.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to create reset token")
	}

	return response.SuccessWithMessage(c, "A password reset link has been sent", nil)
}

// ResetPassword handles password reset with token
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.svc.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidResetToken):
			return response.BadRequestWithCode(c, "Invalid or expired reset token", "INVALID_RESET_TOKEN")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, authutil.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 8 characters long")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}
