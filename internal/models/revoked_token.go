package models

import "time"

// RevokedToken records a JWT that was explicitly invalidated (logout, or the
// old token after a refresh). Rows become irrelevant once ExpiresAt passes,
// since the token would no longer verify anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
