package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/examstack/examstack-api/model"
	"github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	issuer    *auth.TokenIssuer
	blacklist *auth.BlacklistService
	db        *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(issuer *auth.TokenIssuer, blacklist *auth.BlacklistService, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:    issuer,
		blacklist: blacklist,
		db:        db,
	}
}

// Required is middleware that requires a valid, unrevoked access token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing or malformed authorization token")
		}

		claims, err := m.issuer.ValidateToken(tokenString, model.TokenTypeAccess)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				return response.Unauthorized(c, "Token has expired")
			case errors.Is(err, auth.ErrWrongTokenType):
				return response.Unauthorized(c, "Invalid token type")
			default:
				return response.Unauthorized(c, "Invalid token")
			}
		}

		// Signature checks pass for any previously issued token; the
		// ledger is what rejects tokens invalidated by logout.
		revoked, err := m.blacklist.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return response.InternalServerError(c, "Failed to check token status")
		}
		if revoked {
			return response.Unauthorized(c, "Token has been revoked")
		}

		var user model.User
		if err := m.db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user", &user)
		c.Locals("claims", claims)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// RequireAdmin requires a valid access token belonging to an admin.
// It stacks on Required.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}
		if !user.IsAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("token_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
