package model

import (
	"time"
)

// User represents a registered user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;not null;size:45" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:45" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`

	// Pending password reset. Both fields are set together on a reset
	// request and cleared together on a successful confirm.
	ResetToken          *string    `gorm:"type:text" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relationships
	RevokedTokens []RevokedToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasPendingReset reports whether the user has an unconsumed reset token.
func (u *User) HasPendingReset() bool {
	return u.ResetToken != nil && u.ResetTokenExpiresAt != nil
}

// ResetExpired reports whether the pending reset token has passed its expiry.
func (u *User) ResetExpired() bool {
	return u.ResetTokenExpiresAt != nil && time.Now().After(*u.ResetTokenExpiresAt)
}
