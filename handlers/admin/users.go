package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/examstack/examstack-api/model"
	authutil "github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/response"
)

// AdminHandler serves the admin-only operational endpoints.
type AdminHandler struct {
	db        *gorm.DB
	blacklist *authutil.BlacklistService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, blacklist *authutil.BlacklistService) *AdminHandler {
	return &AdminHandler{db: db, blacklist: blacklist}
}

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// UserListItem is one row in the admin user listing.
type UserListItem struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// ListUsers retrieves users with pagination and an optional
// username/email search.
// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var req ListUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := h.db.Model(&model.User{})

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	offset := (req.Page - 1) * req.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(req.Limit).Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			IsAdmin:  u.IsAdmin,
		})
	}

	return response.Success(c, fiber.Map{
		"users": items,
		"total": total,
		"page":  req.Page,
		"limit": req.Limit,
	})
}

// GetRevocationStats reports the size of the revocation ledger.
// GET /admin/revocations
func (h *AdminHandler) GetRevocationStats(c *fiber.Ctx) error {
	total, err := h.blacklist.CountRevoked(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to count revoked tokens")
	}

	return response.Success(c, fiber.Map{"revoked_tokens": total})
}
