package service

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"gorm.io/gorm"
)

// ReportService computes derived statistics from tasks and assignments.
// Absence of data is always a successful zero/empty result; only structural
// failures (no employee record for the caller) are errors.
type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReportService creates a new ReportService using the wall clock.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

// NewReportServiceWithClock creates a ReportService with an injected clock,
// so calendar-month comparisons are reproducible in tests.
func NewReportServiceWithClock(db *gorm.DB, now func() time.Time) *ReportService {
	return &ReportService{db: db, now: now}
}

// RatioReport is the completion breakdown for one employee.
type RatioReport struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Incomplete int64 `json:"incomplete"`
}

// employeeForCaller resolves the caller's employee record.
func (s *ReportService) employeeForCaller(callerID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "user_id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// CompleteIncompleteRatio reports how many of the caller's assigned tasks
// are complete. No assignments yields an all-zero report.
func (s *ReportService) CompleteIncompleteRatio(callerID uuid.UUID) (*RatioReport, error) {
	employee, err := s.employeeForCaller(callerID)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.AssignedTask{}).
		Where("employee_id = ?", employee.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var completed int64
	if err := s.db.Model(&models.AssignedTask{}).
		Joins("JOIN tasks ON tasks.id = assigned_tasks.task_id AND tasks.deleted_at IS NULL").
		Where("assigned_tasks.employee_id = ? AND tasks.status = ?", employee.ID, models.TaskStatusComplete).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	return &RatioReport{
		Total:      total,
		Completed:  completed,
		Incomplete: total - completed,
	}, nil
}

// ProductivityReport compares the caller's task volume between the current
// and the previous calendar month.
type ProductivityReport struct {
	CurrentMonth     int64   `json:"current_month"`
	PreviousMonth    int64   `json:"previous_month"`
	PercentageChange float64 `json:"percentage_change"`
}

// CompareTwoMonthsProductivity counts the caller's assigned tasks whose
// end_date falls in the current vs. the immediately preceding calendar month
// and reports the period-over-period change. previous=0 with current>0 is
// reported as +100; two empty months as 0.
func (s *ReportService) CompareTwoMonthsProductivity(callerID uuid.UUID) (*ProductivityReport, error) {
	employee, err := s.employeeForCaller(callerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextStart := currentStart.AddDate(0, 1, 0)
	previousStart := currentStart.AddDate(0, -1, 0)

	current, err := s.countTasksEndingBetween(employee.ID, currentStart, nextStart)
	if err != nil {
		return nil, err
	}
	previous, err := s.countTasksEndingBetween(employee.ID, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	var change float64
	switch {
	case previous == 0 && current > 0:
		change = 100
	case previous == 0:
		change = 0
	default:
		change = round2(float64(current-previous) / float64(previous) * 100)
	}

	return &ProductivityReport{
		CurrentMonth:     current,
		PreviousMonth:    previous,
		PercentageChange: change,
	}, nil
}

// countTasksEndingBetween counts an employee's assigned tasks with end_date
// in [from, to).
func (s *ReportService) countTasksEndingBetween(employeeID uint, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.AssignedTask{}).
		Joins("JOIN tasks ON tasks.id = assigned_tasks.task_id AND tasks.deleted_at IS NULL").
		Where("assigned_tasks.employee_id = ?", employeeID).
		Where("tasks.end_date >= ? AND tasks.end_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EmployeeTaskCount is one row of the employee-wise completion report.
type EmployeeTaskCount struct {
	EmployeeID uint   `json:"employee_id"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
}

// EmployeeWiseCompletedCount reports, for every employee of the admin who
// assigned the caller their tasks, how many of that employee's assigned
// tasks were completed in the requested year. When the grand total is zero
// the report is an empty set rather than per-employee zero rows.
func (s *ReportService) EmployeeWiseCompletedCount(callerID uuid.UUID, year int) ([]EmployeeTaskCount, error) {
	employee, err := s.employeeForCaller(callerID)
	if err != nil {
		return nil, err
	}

	// The scoping admin is whoever assigned the caller a task first. A
	// caller with no assignments has no admin to scope by, so the report is
	// empty.
	var first models.AssignedTask
	if err := s.db.Where("employee_id = ?", employee.ID).
		Order("created_at").
		First(&first).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []EmployeeTaskCount{}, nil
		}
		return nil, err
	}
	adminID := first.AssignedBy

	var peers []models.Employee
	if err := s.db.
		Where("id IN (?)", s.db.Model(&models.AssignedTask{}).
			Select("DISTINCT employee_id").
			Where("assigned_by = ?", adminID)).
		Find(&peers).Error; err != nil {
		return nil, err
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	counts := make([]EmployeeTaskCount, 0, len(peers))
	var grandTotal int64
	for _, peer := range peers {
		var count int64
		err := s.db.Model(&models.AssignedTask{}).
			Joins("JOIN tasks ON tasks.id = assigned_tasks.task_id AND tasks.deleted_at IS NULL").
			Where("assigned_tasks.employee_id = ?", peer.ID).
			Where("tasks.status = ?", models.TaskStatusComplete).
			Where("tasks.end_date >= ? AND tasks.end_date < ?", yearStart, yearEnd).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		counts = append(counts, EmployeeTaskCount{
			EmployeeID: peer.ID,
			Name:       peer.Name,
			Count:      count,
		})
		grandTotal += count
	}

	// Deployed contract: an all-zero year collapses to an empty data set.
	if grandTotal == 0 {
		return []EmployeeTaskCount{}, nil
	}
	return counts, nil
}

// AdminSummary is the admin dashboard overview.
type AdminSummary struct {
	TotalTasks     int64 `json:"total_tasks"`
	AssignedTasks  int64 `json:"assigned_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	Employees      int64 `json:"employees"`
}

// Summary reports task, assignment, and employee counts for the calling
// admin.
func (s *ReportService) Summary(callerID uuid.UUID) (*AdminSummary, error) {
	var out AdminSummary

	if err := s.db.Model(&models.Task{}).Where("user_id = ?", callerID).Count(&out.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.AssignedTask{}).Where("assigned_by = ?", callerID).Count(&out.AssignedTasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Task{}).
		Where("user_id = ? AND status = ?", callerID, models.TaskStatusComplete).
		Count(&out.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Employee{}).Where("admin_id = ?", callerID).Count(&out.Employees).Error; err != nil {
		return nil, err
	}

	return &out, nil
}
