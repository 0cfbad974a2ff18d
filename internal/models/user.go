package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names form a closed set, configured once at bootstrap.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents a login account. Every account carries exactly one role;
// admins own tasks and employees, employee accounts are linked to an
// Employee record.
type User struct {
	ID           uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'admin'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
