package rbac

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelConf string

// Permission names checked by the access-control gate. The set is fixed:
// roles and permissions are seeded at bootstrap and never created by end
// users.
const (
	PermAccessTasks     = "access tasks"
	PermCreateTasks     = "create tasks"
	PermUpdateTasks     = "update tasks"
	PermDeleteTasks     = "delete tasks"
	PermAccessEmployees = "access employees"
	PermCreateEmployee  = "create employee"
	PermUpdateEmployee  = "update employee"
	PermDeleteEmployee  = "delete employee"
	PermAssignTask      = "assign task"
	PermAccessAssigned  = "access assigned tasks"
	PermUpdateAssigned  = "update assigned task"
	PermAdminDashboard  = "access admin dashboard"
	PermEmpDashboard    = "access employee dashboard"
)

// rolePermissions is the static role→permission mapping. The two sets are
// disjoint except for "update employee" (admins edit their employees,
// employees edit themselves).
var rolePermissions = map[string][]string{
	models.RoleAdmin: {
		PermAccessTasks,
		PermCreateTasks,
		PermUpdateTasks,
		PermDeleteTasks,
		PermAccessEmployees,
		PermCreateEmployee,
		PermUpdateEmployee,
		PermDeleteEmployee,
		PermAssignTask,
		PermAdminDashboard,
	},
	models.RoleEmployee: {
		PermUpdateEmployee,
		PermAccessAssigned,
		PermUpdateAssigned,
		PermEmpDashboard,
	},
}

var enforcer *casbin.Enforcer

// InitEnforcer initializes the Casbin enforcer and seeds the role→permission
// policies if they are missing.
func InitEnforcer(db *gorm.DB, logger *slog.Logger) error {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return fmt.Errorf("failed to parse casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := e.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}

	enforcer = e

	if err := seedRolePolicies(); err != nil {
		return fmt.Errorf("failed to seed role policies: %w", err)
	}

	logger.Info("RBAC enforcer initialized")
	return nil
}

// seedRolePolicies writes the static role→permission policies. AddPolicy is
// a no-op for rules that already exist, so this is idempotent.
func seedRolePolicies() error {
	for role, perms := range rolePermissions {
		for _, perm := range perms {
			if _, err := enforcer.AddPolicy(role, perm); err != nil {
				return err
			}
		}
	}
	return enforcer.SavePolicy()
}

// GetEnforcer returns the global enforcer instance
func GetEnforcer() *casbin.Enforcer {
	return enforcer
}

// AssignRole binds a user to one of the fixed roles.
func AssignRole(userID uuid.UUID, role string) error {
	if _, ok := rolePermissions[role]; !ok {
		return fmt.Errorf("unknown role: %s", role)
	}
	if _, err := enforcer.AddGroupingPolicy(userID.String(), role); err != nil {
		return err
	}
	return enforcer.SavePolicy()
}

// HasPermission checks whether the user's role grants the named permission.
func HasPermission(userID uuid.UUID, permission string) (bool, error) {
	return enforcer.Enforce(userID.String(), permission)
}

// RolePermissions returns the permission set for a role. Unknown roles get
// an empty set.
func RolePermissions(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// UserPermissions returns the permission names granted to a user via their
// role bindings.
func UserPermissions(userID uuid.UUID) ([]string, error) {
	perms, err := enforcer.GetImplicitPermissionsForUser(userID.String())
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) >= 2 {
			names = append(names, p[1])
		}
	}
	return names, nil
}

// RemoveUser drops all role bindings for a user. Called when the linked
// account is deleted so stale grants cannot accumulate.
func RemoveUser(userID uuid.UUID) error {
	if _, err := enforcer.DeleteUser(userID.String()); err != nil {
		return err
	}
	return enforcer.SavePolicy()
}
