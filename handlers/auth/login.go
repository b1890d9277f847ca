package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/examstack/examstack-api/services"
	"github.com/examstack/examstack-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsAdmin      bool   `json:"is_admin"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Unknown email and wrong password are deliberately
			// indistinguishable here.
			return response.BadRequestWithCode(c, "Invalid email or password", "INVALID_CREDENTIALS")
		}
		return response.InternalServerError(c, "Failed to log in")
	}

	return response.Success(c, LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		IsAdmin:      result.IsAdmin,
	})
}
