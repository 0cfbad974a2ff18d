package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"gorm.io/gorm"
)

// LogAction records an audit log entry
func LogAction(db *gorm.DB, userID uuid.UUID, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	log := models.AuditLog{
		UserID:      userID,
		Action:      action,
		Resource:    resource,
		DetailsJSON: string(detailsJSON),
		Timestamp:   time.Now(),
	}

	return db.Create(&log).Error
}

// Audit actions constants
const (
	ActionRegister           = "register"
	ActionLogin              = "login"
	ActionLogout             = "logout"
	ActionCreateTask         = "create_task"
	ActionUpdateTask         = "update_task"
	ActionDeleteTask         = "delete_task"
	ActionCreateEmployee     = "create_employee"
	ActionUpdateEmployee     = "update_employee"
	ActionDeleteEmployee     = "delete_employee"
	ActionAssignTask         = "assign_task"
	ActionUpdateAssignedTask = "update_assigned_task"
)
