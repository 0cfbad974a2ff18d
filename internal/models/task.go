package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatusComplete is the recognized terminal status value. Status is
// otherwise free-form text.
const TaskStatusComplete = "Complete"

// Task is a unit of work owned by the admin account that created it.
type Task struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	Status      string         `json:"status,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	UserID      uuid.UUID      `gorm:"type:text;not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsComplete reports whether the task has reached its terminal status.
func (t *Task) IsComplete() bool {
	return t.Status == TaskStatusComplete
}
