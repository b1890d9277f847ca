package cron

import (
	"testing"
	"time"

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
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RevokedToken{}, &model.CronJobLog{}))

	return db
}

func TestSweepExpiredResetTokens(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	m := NewCronManager(db)

	expiredToken := "expired-token"
	expiredAt := time.Now().Add(-time.Minute)
	liveToken := "live-token"
	liveUntil := time.Now().Add(30 * time.Minute)

	users := []model.User{
		{Username: "stale", Email: "stale@x.com", PasswordHash: "x", ResetToken: &expiredToken, ResetTokenExpiresAt: &expiredAt},
		{Username: "fresh", Email: "fresh@x.com", PasswordHash: "x", ResetToken: &liveToken, ResetTokenExpiresAt: &liveUntil},
		{Username: "plain", Email: "plain@x.com", PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&users).Error)

	m.SweepExpiredResetTokens()

	var stale, fresh model.User
	require.NoError(t, db.Where("username = ?", "stale").First(&stale).Error)
	require.NoError(t, db.Where("username = ?", "fresh").First(&fresh).Error)

	// Expired pair cleared as a whole, live pair untouched.
	assert.False(t, stale.HasPendingReset())
	assert.Nil(t, stale.ResetToken)
	assert.Nil(t, stale.ResetTokenExpiresAt)

	require.True(t, fresh.HasPendingReset())
	assert.Equal(t, liveToken, *fresh.ResetToken)
}

func TestSweepRecordsJobLog(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	m := NewCronManager(db)

	m.logJobStart("sweep_expired_reset_tokens")
	m.SweepExpiredResetTokens()

	var jobLog model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", "sweep_expired_reset_tokens").First(&jobLog).Error)
	assert.Equal(t, "completed", jobLog.Status)
	require.NotNil(t, jobLog.CompletedAt)
	assert.NotEmpty(t, jobLog.Message)
}
