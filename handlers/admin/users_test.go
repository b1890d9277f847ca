package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	admin_handlers "github.com/examstack/examstack-api/handlers/admin"
	"github.com/examstack/examstack-api/model"
	authutil "github.com/examstack/examstack-api/utils/auth"
	"github.com/examstack/examstack-api/utils/middleware"
)

type adminEnv struct {
	app       *fiber.App
	db        *gorm.DB
	issuer    *authutil.TokenIssuer
	blacklist *authutil.BlacklistService
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RevokedToken{}))

	issuer := authutil.NewTokenIssuer(authutil.JWTConfig{
		Secret:        "test-jwt-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "examstack-test",
	})
	blacklist := authutil.NewBlacklistService(db, nil)
	authMiddleware := middleware.NewAuthMiddleware(issuer, blacklist, db)
	handler := admin_handlers.NewAdminHandler(db, blacklist)

	app := fiber.New()
	adminGroup := app.Group("/api/v1/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	adminGroup.Get("/users", handler.ListUsers)
	adminGroup.Get("/revocations", handler.GetRevocationStats)

	return &adminEnv{app: app, db: db, issuer: issuer, blacklist: blacklist}
}

func (e *adminEnv) createUser(t *testing.T, username, email string, isAdmin bool) *model.User {
	t.Helper()

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "irrelevant",
		IsAdmin:      isAdmin,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

func (e *adminEnv) tokenFor(t *testing.T, userID uint) string {
	t.Helper()

	token, _, err := e.issuer.GenerateAccessToken(userID)
	require.NoError(t, err)
	return token
}

func (e *adminEnv) get(t *testing.T, path, token string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	t.Parallel()

	env := newAdminEnv(t)
	regular := env.createUser(t, "ann", "ann@x.com", false)

	resp, _ := env.get(t, "/api/v1/admin/users", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.get(t, "/api/v1/admin/users", env.tokenFor(t, regular.ID))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	env := newAdminEnv(t)
	admin := env.createUser(t, "root", "root@x.com", true)
	env.createUser(t, "ann", "ann@x.com", false)
	env.createUser(t, "bob", "bob@x.com", false)

	resp, body := env.get(t, "/api/v1/admin/users", env.tokenFor(t, admin.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env2 struct {
		Data struct {
			Users []struct {
				Username string `json:"username"`
			} `json:"users"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env2))
	assert.EqualValues(t, 3, env2.Data.Total)
	assert.Len(t, env2.Data.Users, 3)

	// Search narrows by username or email.
	resp, body = env.get(t, "/api/v1/admin/users?search=ann", env.tokenFor(t, admin.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &env2))
	assert.EqualValues(t, 1, env2.Data.Total)
}

func TestGetRevocationStats(t *testing.T) {
	t.Parallel()

	env := newAdminEnv(t)
	admin := env.createUser(t, "root", "root@x.com", true)

	require.NoError(t, env.blacklist.Revoke(context.Background(), "jti-1", model.TokenTypeAccess, admin.ID))
	require.NoError(t, env.blacklist.Revoke(context.Background(), "jti-2", model.TokenTypeRefresh, admin.ID))

	resp, body := env.get(t, "/api/v1/admin/revocations", env.tokenFor(t, admin.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env2 struct {
		Data struct {
			RevokedTokens int64 `json:"revoked_tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env2))
	assert.EqualValues(t, 2, env2.Data.RevokedTokens)
}
