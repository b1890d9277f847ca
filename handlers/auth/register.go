package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/examstack/examstack-api/model"
	"github.com/examstack/examstack-api/services"
	authutil "github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/response"
	"github.com/examstack/examstack-api/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	svc       *services.AuthService
	db        *gorm.DB
	validator *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *services.AuthService, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		db:        db,
		validator: validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=45"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	AdminCode string `json:"admin_code,omitempty"`
}

// UserResponse represents user data in responses. The password hash
// never appears here.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.svc.Signup(c.Context(), services.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		AdminCode: req.AdminCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "User with this email already exists")
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "Username is already taken")
		case errors.Is(err, services.ErrInvalidAdminCode):
			return response.BadRequestWithCode(c, "Invalid admin code", "INVALID_ADMIN_CODE")
		case errors.Is(err, authutil.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 8 characters long")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, newUserResponse(user))
}
