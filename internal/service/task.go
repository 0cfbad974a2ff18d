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

// TaskService contains the business logic for task operations. Every
// operation takes the caller identity explicitly and re-derives ownership
// from it.
type TaskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// CreateTaskRequest carries the fields accepted on task creation.
type CreateTaskRequest struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Deadline    *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateTaskRequest carries the fields accepted on task update. Nil fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Deadline    *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListOptions controls pagination for listing operations.
type ListOptions struct {
	Limit  int
	Offset int
}

func (o ListOptions) apply(q *gorm.DB) *gorm.DB {
	if o.Limit > 0 {
		q = q.Limit(o.Limit)
	}
	if o.Offset > 0 {
		q = q.Offset(o.Offset)
	}
	return q
}

// validateDates rejects schedules that end before they start.
func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return &ValidationError{Message: "end_date must not be before start_date"}
	}
	return nil
}

// Create creates a task owned by the caller.
func (s *TaskService) Create(callerID uuid.UUID, req CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, &ValidationError{Message: "title is required"}
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Deadline:    req.Deadline,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		UserID:      callerID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionCreateTask, fmt.Sprintf("task:%d", task.ID), map[string]interface{}{
		"title": task.Title,
	})

	return &task, nil
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(callerID uuid.UUID, opts ListOptions) ([]models.Task, int64, error) {
	var total int64
	if err := s.db.Model(&models.Task{}).Where("user_id = ?", callerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	q := opts.apply(s.db.Where("user_id = ?", callerID).Order("created_at DESC"))
	if err := q.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Get returns one of the caller's tasks. Tasks owned by other admins are
// reported as not found.
func (s *TaskService) Get(callerID uuid.UUID, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !OwnsTask(callerID, &task) {
		return nil, ErrNotFound
	}
	return &task, nil
}

// Update mutates one of the caller's tasks.
func (s *TaskService) Update(callerID uuid.UUID, id uint, req UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(callerID, id)
	if err != nil {
		return nil, err
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

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	task.StartDate = start
	task.EndDate = end

	if err := s.db.Save(task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionUpdateTask, fmt.Sprintf("task:%d", task.ID), map[string]interface{}{
		"title": task.Title,
	})

	return task, nil
}

// Delete removes one of the caller's tasks together with any assignment
// referencing it. The store does not cascade on its own, so both deletes run
// in one transaction.
func (s *TaskService) Delete(callerID uuid.UUID, id uint) error {
	task, err := s.Get(callerID, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.AssignedTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	audit.LogAction(s.db, callerID, audit.ActionDeleteTask, fmt.Sprintf("task:%d", task.ID), map[string]interface{}{
		"title": task.Title,
	})

	return nil
}

// Search returns the caller's tasks whose title or description matches the
// keyword.
func (s *TaskService) Search(callerID uuid.UUID, keyword string, opts ListOptions) ([]models.Task, error) {
	var tasks []models.Task
	pattern := "%" + keyword + "%"
	q := s.db.Where("user_id = ?", callerID).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at DESC")
	if err := opts.apply(q).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FilterRequest narrows a task listing by status and/or priority.
type FilterRequest struct {
	Status   string
	Priority string
}

// Filter returns the caller's tasks matching the given status/priority.
func (s *TaskService) Filter(callerID uuid.UUID, req FilterRequest, opts ListOptions) ([]models.Task, error) {
	q := s.db.Where("user_id = ?", callerID)
	if req.Status != "" {
		q = q.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		q = q.Where("priority = ?", req.Priority)
	}

	var tasks []models.Task
	if err := opts.apply(q.Order("created_at DESC")).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
