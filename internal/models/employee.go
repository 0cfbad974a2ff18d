package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee represents a managed worker. Each employee belongs to exactly one
// owning admin (AdminID) and is linked to exactly one login account (UserID);
// the unique index on UserID keeps the account↔employee link one-to-one.
type Employee struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone,omitempty"`
	AdminID   uuid.UUID      `gorm:"type:text;not null;index" json:"admin_id"`
	Admin     User           `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	UserID    uuid.UUID      `gorm:"type:text;not null;uniqueIndex" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
