package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/examstack/examstack-api/utils/middleware"
	"github.com/examstack/examstack-api/utils/response"
)

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, newUserResponse(user))
}
