package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/audit"
	"github.com/raisa-SSTL/taskman-api/internal/auth"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
	"gorm.io/gorm"
)

// EmployeeService contains the business logic for employee operations.
// Creating an employee also creates its login account; the two records form
// one atomic unit.
type EmployeeService struct {
	db *gorm.DB
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

// CreateEmployeeRequest carries the fields accepted on employee creation.
type CreateEmployeeRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// UpdateEmployeeRequest carries the fields accepted on employee update.
// Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
}

// Create creates the login account and the employee record as a single
// atomic unit. If either insert fails, neither record is persisted.
func (s *EmployeeService) Create(callerID uuid.UUID, req CreateEmployeeRequest) (*models.Employee, error) {
	if req.Name == "" || req.Email == "" {
		return nil, &ValidationError{Message: "name and email are required"}
	}
	if len(req.Password) < 6 {
		return nil, &ValidationError{Message: "password must be at least 6 characters"}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	err = s.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleEmployee,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "email already registered"}
			}
			return fmt.Errorf("create account: %w", err)
		}

		employee = models.Employee{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			AdminID: callerID,
			UserID:  user.ID,
		}
		if err := tx.Create(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "employee already exists for this account"}
			}
			return fmt.Errorf("create employee: %w", err)
		}

		employee.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Role grant lives in the policy store, outside the record transaction.
	if err := rbac.AssignRole(employee.UserID, models.RoleEmployee); err != nil {
		return nil, fmt.Errorf("assign employee role: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionCreateEmployee, fmt.Sprintf("employee:%d", employee.ID), map[string]interface{}{
		"name":  employee.Name,
		"email": employee.Email,
	})

	return &employee, nil
}

// List returns the employees owned by the caller.
func (s *EmployeeService) List(callerID uuid.UUID, opts ListOptions) ([]models.Employee, int64, error) {
	var total int64
	if err := s.db.Model(&models.Employee{}).Where("admin_id = ?", callerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	q := opts.apply(s.db.Where("admin_id = ?", callerID).Order("created_at DESC"))
	if err := q.Find(&employees).Error; err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Get returns one of the caller's employees. Employees owned by other admins
// are reported as not found.
func (s *EmployeeService) Get(callerID uuid.UUID, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !OwnsEmployee(callerID, &employee) {
		return nil, ErrNotFound
	}
	return &employee, nil
}

// FindByUserID resolves the employee record linked to a login account.
func (s *EmployeeService) FindByUserID(userID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// Update mutates an employee record and its linked account in one atomic
// unit. Allowed for the owning admin or for the linked account itself.
func (s *EmployeeService) Update(caller *models.User, id uint, req UpdateEmployeeRequest) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !OwnsEmployee(caller.ID, &employee) && !IsLinkedAccount(caller.ID, &employee) {
		return nil, ErrNotFound
	}

	if req.Password != nil && len(*req.Password) < 6 {
		return nil, &ValidationError{Message: "password must be at least 6 characters"}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", employee.UserID).Error; err != nil {
			return fmt.Errorf("load linked account: %w", err)
		}

		if req.Name != nil {
			user.Name = *req.Name
			employee.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
			employee.Email = *req.Email
		}
		if req.Phone != nil {
			employee.Phone = *req.Phone
		}
		if req.Password != nil {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.Save(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "email already registered"}
			}
			return fmt.Errorf("update account: %w", err)
		}
		if err := tx.Save(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "email already registered"}
			}
			return fmt.Errorf("update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.LogAction(s.db, caller.ID, audit.ActionUpdateEmployee, fmt.Sprintf("employee:%d", employee.ID), map[string]interface{}{
		"name": employee.Name,
	})

	return &employee, nil
}

// Delete removes an employee, its assignments, and its linked account in one
// atomic unit. Only the owning admin may delete.
func (s *EmployeeService) Delete(callerID uuid.UUID, id uint) error {
	employee, err := s.Get(callerID, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.AssignedTask{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(employee).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", employee.UserID).Delete(&models.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	if err := rbac.RemoveUser(employee.UserID); err != nil {
		return fmt.Errorf("remove role bindings: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionDeleteEmployee, fmt.Sprintf("employee:%d", employee.ID), map[string]interface{}{
		"name": employee.Name,
	})

	return nil
}
