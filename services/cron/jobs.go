package cron

import (
	"fmt"
	"time"

	"github.com/examstack/examstack-api/model"
)

// retention window for cron execution logs
const cronLogRetention = 90 * 24 * time.Hour

// SweepExpiredResetTokens clears reset_token/reset_token_expires_at
// pairs whose expiry has passed without the token being consumed. Both
// fields are always cleared together. The revocation ledger is never
// touched here; it stays append-only.
func (m *CronManager) SweepExpiredResetTokens() {
	result := m.db.
		Model(&model.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		})

	if result.Error != nil {
		m.logJobError("sweep_expired_reset_tokens", result.Error)
		return
	}

	// Prune old execution logs while we are here.
	cutoff := time.Now().Add(-cronLogRetention)
	m.db.Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})

	m.logJobComplete("sweep_expired_reset_tokens",
		fmt.Sprintf("cleared reset tokens for %d users", result.RowsAffected))
}
