package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/audit"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"gorm.io/gorm"
)

// AssignmentService implements task→employee assignment and the operations
// over existing assignments. A task holds at most one assignment at any
// time; the unique index on assigned_tasks.task_id backs the in-transaction
// check against concurrent attempts.
type AssignmentService struct {
	db *gorm.DB
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// Assign binds a task to an employee. Preconditions are checked in order,
// first failure wins, and nothing is persisted on failure:
//
//  1. the task must be owned by the caller,
//  2. the task must not already be Complete,
//  3. the employee must be owned by the caller,
//  4. the task must not already be assigned.
func (s *AssignmentService) Assign(callerID uuid.UUID, taskID, employeeID uint) (*models.AssignedTask, error) {
	var assignment models.AssignedTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ? AND user_id = ?", taskID, callerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ForbiddenError{Message: "you can only assign tasks that you have created"}
			}
			return err
		}

		if task.IsComplete() {
			return &ForbiddenError{Message: "this task is already complete and cannot be assigned"}
		}

		var employee models.Employee
		if err := tx.First(&employee, "id = ? AND admin_id = ?", employeeID, callerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ForbiddenError{Message: "you can only assign tasks to employees you have created"}
			}
			return err
		}

		var existing models.AssignedTask
		if err := tx.First(&existing, "task_id = ?", taskID).Error; err == nil {
			return &ConflictError{Message: "this task has already been assigned to an employee"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		assignment = models.AssignedTask{
			TaskID:     taskID,
			EmployeeID: employeeID,
			AssignedBy: callerID,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			// A concurrent assignment won the race; the unique index on
			// task_id rejects the second insert.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "this task has already been assigned to an employee"}
			}
			return fmt.Errorf("create assignment: %w", err)
		}

		assignment.Task = task
		assignment.Employee = employee
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.LogAction(s.db, callerID, audit.ActionAssignTask, fmt.Sprintf("task:%d", taskID), map[string]interface{}{
		"employee_id": employeeID,
	})

	return &assignment, nil
}

// UpdateAssignedTaskRequest carries the schedule/status fields an assignee
// may change on their task. Nil fields are left unchanged.
type UpdateAssignedTaskRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
}

// UpdateAssignedTask lets the assignee adjust the underlying task's schedule
// and status. The assignment row itself is immutable; only the task changes.
// The caller is identified by their login account and must hold the
// assignment for the given task.
func (s *AssignmentService) UpdateAssignedTask(callerID uuid.UUID, taskID uint, req UpdateAssignedTaskRequest) (*models.AssignedTask, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "user_id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var assignment models.AssignedTask
	if err := s.db.First(&assignment, "task_id = ? AND employee_id = ?", taskID, employee.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var task models.Task
	if err := s.db.First(&task, "id = ?", assignment.TaskID).Error; err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	start := task.StartDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	end := task.EndDate
	if req.EndDate != nil {
		end = req.EndDate
	}
	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	task.StartDate = start
	task.EndDate = end
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionUpdateAssignedTask, fmt.Sprintf("task:%d", task.ID), map[string]interface{}{
		"status": task.Status,
	})

	assignment.Task = task
	assignment.Employee = employee
	return &assignment, nil
}

// AllAssignedTasks returns every assignment made by the calling admin, with
// task and employee loaded for display. An empty result is a success, not an
// error.
func (s *AssignmentService) AllAssignedTasks(callerID uuid.UUID) ([]models.AssignedTask, error) {
	var assignments []models.AssignedTask
	err := s.db.Preload("Task").Preload("Employee").
		Where("assigned_by = ?", callerID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// EmployeeAssignedTasks returns the assignments held by the caller's
// employee record.
func (s *AssignmentService) EmployeeAssignedTasks(callerID uuid.UUID) ([]models.AssignedTask, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "user_id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var assignments []models.AssignedTask
	err := s.db.Preload("Task").
		Where("employee_id = ?", employee.ID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// Details returns one assignment visible to the caller: admins see
// assignments they made, employees see assignments they hold.
func (s *AssignmentService) Details(caller *models.User, id uint) (*models.AssignedTask, error) {
	q := s.db.Preload("Task").Preload("Employee")

	switch caller.Role {
	case models.RoleAdmin:
		q = q.Where("id = ? AND assigned_by = ?", id, caller.ID)
	case models.RoleEmployee:
		var employee models.Employee
		if err := s.db.First(&employee, "user_id = ?", caller.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		q = q.Where("id = ? AND employee_id = ?", id, employee.ID)
	default:
		return nil, &ForbiddenError{Message: "role cannot access assignments"}
	}

	var assignment models.AssignedTask
	if err := q.First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// EmployeeTasks groups an employee with the tasks the calling admin has
// assigned to them.
type EmployeeTasks struct {
	Employee models.Employee `json:"employee"`
	Tasks    []models.Task   `json:"tasks"`
}

// EmployeeWiseList returns the calling admin's assignments grouped per
// employee.
func (s *AssignmentService) EmployeeWiseList(callerID uuid.UUID) ([]EmployeeTasks, error) {
	var assignments []models.AssignedTask
	err := s.db.Preload("Task").Preload("Employee").
		Where("assigned_by = ?", callerID).
		Order("employee_id, created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	grouped := make([]EmployeeTasks, 0)
	index := make(map[uint]int)
	for _, a := range assignments {
		i, ok := index[a.EmployeeID]
		if !ok {
			i = len(grouped)
			index[a.EmployeeID] = i
			grouped = append(grouped, EmployeeTasks{Employee: a.Employee})
		}
		grouped[i].Tasks = append(grouped[i].Tasks, a.Task)
	}
	return grouped, nil
}
