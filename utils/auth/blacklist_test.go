package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/examstack/examstack-api/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RevokedToken{}))

	return db
}

func TestBlacklistService_RevokeAndLookup(t *testing.T) {
	t.Parallel()

	svc := NewBlacklistService(newTestDB(t), nil)
	ctx := context.Background()

	revoked, err := svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, "jti-1", model.TokenTypeAccess, 1))

	revoked, err = svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other identifiers are unaffected.
	revoked, err = svc.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistService_RevokeIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewBlacklistService(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, svc.Revoke(ctx, "jti-1", model.TokenTypeRefresh, 1))
	require.NoError(t, svc.Revoke(ctx, "jti-1", model.TokenTypeRefresh, 1))

	count, err := svc.CountRevoked(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBlacklistService_LedgerIsAppendOnly(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewBlacklistService(db, nil)
	ctx := context.Background()

	require.NoError(t, svc.Revoke(ctx, "jti-a", model.TokenTypeAccess, 1))
	require.NoError(t, svc.Revoke(ctx, "jti-b", model.TokenTypeRefresh, 2))

	var entries []model.RevokedToken
	require.NoError(t, db.Order("jti").Find(&entries).Error)
	require.Len(t, entries, 2)

	assert.Equal(t, "jti-a", entries[0].JTI)
	assert.Equal(t, model.TokenTypeAccess, entries[0].TokenType)
	assert.Equal(t, uint(1), entries[0].UserID)
	assert.False(t, entries[0].CreatedAt.IsZero())

	assert.Equal(t, "jti-b", entries[1].JTI)
	assert.Equal(t, model.TokenTypeRefresh, entries[1].TokenType)
}
