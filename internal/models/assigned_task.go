package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignedTask binds one task to one employee. The unique index on TaskID
// enforces the at-most-one-assignment invariant at the store level, so two
// concurrent assignment attempts on the same task cannot both succeed.
// Rows are immutable after creation and removed when the parent task is
// deleted.
type AssignedTask struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TaskID     uint      `gorm:"not null;uniqueIndex" json:"task_id"`
	Task       Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	AssignedBy uuid.UUID `gorm:"type:text;not null;index" json:"assigned_by"`
	Admin      User      `gorm:"foreignKey:AssignedBy" json:"admin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
