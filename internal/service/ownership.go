package service

import (
	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
)

// Ownership is always re-derived from the caller identity on every call;
// nothing here consults session state. Authority is direct: an admin owns the
// tasks and employees it created, never anything reachable transitively.

// OwnsTask reports whether the caller is the admin that created the task.
func OwnsTask(callerID uuid.UUID, t *models.Task) bool {
	return t.UserID == callerID
}

// OwnsEmployee reports whether the caller is the admin that created the
// employee.
func OwnsEmployee(callerID uuid.UUID, e *models.Employee) bool {
	return e.AdminID == callerID
}

// IsLinkedAccount reports whether the caller is the employee's own login
// account.
func IsLinkedAccount(callerID uuid.UUID, e *models.Employee) bool {
	return e.UserID == callerID
}
