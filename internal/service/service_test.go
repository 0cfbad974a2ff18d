package service

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates a file-backed sqlite DB in a temp dir, migrates the models,
// and initializes RBAC. TranslateError is on so unique-index violations
// surface as gorm.ErrDuplicatedKey, same as the production setup.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Task{},
		&models.AssignedTask{},
		&models.AuditLog{},
		&models.RevokedToken{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// RBAC enforcer is global — initialize per test
	if err := rbac.InitEnforcer(db, slog.Default()); err != nil {
		t.Fatalf("init rbac: %v", err)
	}

	return db
}

// createAdmin inserts an admin account and returns its ID.
func createAdmin(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	user := models.User{
		Name:         "Admin " + email,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return user.ID
}

// createEmployee provisions an employee (with its linked account) through
// the service, so the record shape matches production.
func createEmployee(t *testing.T, db *gorm.DB, adminID uuid.UUID, email string) *models.Employee {
	t.Helper()
	svc := NewEmployeeService(db)
	employee, err := svc.Create(adminID, CreateEmployeeRequest{
		Name:     "Employee " + email,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}

// createTask inserts a task owned by the given admin.
func createTask(t *testing.T, db *gorm.DB, adminID uuid.UUID, title, status string) *models.Task {
	t.Helper()
	task := models.Task{
		Title:  title,
		Status: status,
		UserID: adminID,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return &task
}

// createTaskEnding inserts a task with a given status and end date.
func createTaskEnding(t *testing.T, db *gorm.DB, adminID uuid.UUID, title, status string, end time.Time) *models.Task {
	t.Helper()
	task := models.Task{
		Title:   title,
		Status:  status,
		EndDate: &end,
		UserID:  adminID,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return &task
}

// assignDirect inserts an assignment row, bypassing the service's
// preconditions. Report tests use it to set up completed assigned tasks,
// which the assign operation itself would refuse to create.
func assignDirect(t *testing.T, db *gorm.DB, adminID uuid.UUID, taskID, employeeID uint) {
	t.Helper()
	row := models.AssignedTask{TaskID: taskID, EmployeeID: employeeID, AssignedBy: adminID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("insert assignment: %v", err)
	}
}

// assign binds a task to an employee through the service.
func assign(t *testing.T, db *gorm.DB, adminID uuid.UUID, taskID, employeeID uint) *models.AssignedTask {
	t.Helper()
	svc := NewAssignmentService(db)
	assignment, err := svc.Assign(adminID, taskID, employeeID)
	if err != nil {
		t.Fatalf("assign task %d to employee %d: %v", taskID, employeeID, err)
	}
	return assignment
}

func timePtr(v time.Time) *time.Time { return &v }

func strPtr(v string) *string { return &v }
