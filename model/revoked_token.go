package model

import (
	"time"
)

// Token types embedded in issued tokens and recorded on revocation.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// RevokedToken is one entry in the revocation ledger. A row for a
// given JTI means that token is rejected regardless of its embedded
// expiry. The ledger is append-only: rows are never updated or
// deleted by the application.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null;type:varchar(100)" json:"jti"`
	TokenType string    `gorm:"not null;type:varchar(20)" json:"token_type"` // access, refresh
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"revoked_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for RevokedToken
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
