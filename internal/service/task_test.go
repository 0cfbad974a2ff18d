package service

import (
	"errors"
	"testing"
	"time"

	"github.com/raisa-SSTL/taskman-api/internal/models"
)

func TestTaskCreate_RequiresTitle(t *testing.T) {
	db := testDB(t)
	adminID := createAdmin(t, db, "alice@test.com")
	svc := NewTaskService(db)

	_, err := svc.Create(adminID, CreateTaskRequest{})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskCreate_RejectsEndBeforeStart(t *testing.T) {
	db := testDB(t)
	adminID := createAdmin(t, db, "alice@test.com")
	svc := NewTaskService(db)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err := svc.Create(adminID, CreateTaskRequest{
		Title:     "backwards",
		StartDate: &start,
		EndDate:   &end,
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskGet_OtherAdminSeesNotFound(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	task := createTask(t, db, alice, "alice's task", "Pending")

	svc := NewTaskService(db)

	if _, err := svc.Get(alice, task.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(bob, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestTaskList_ScopedToOwner(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	createTask(t, db, alice, "a1", "Pending")
	createTask(t, db, alice, "a2", "Pending")
	createTask(t, db, bob, "b1", "Pending")

	svc := NewTaskService(db)
	tasks, total, err := svc.List(alice, ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got total=%d len=%d", total, len(tasks))
	}
	for _, task := range tasks {
		if task.UserID != alice {
			t.Errorf("task %d not owned by caller", task.ID)
		}
	}
}

func TestTaskList_Pagination(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	for i := 0; i < 5; i++ {
		createTask(t, db, alice, "task", "Pending")
	}

	svc := NewTaskService(db)
	tasks, total, err := svc.List(alice, ListOptions{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total=5, got %d", total)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task on last page, got %d", len(tasks))
	}
}

func TestTaskUpdate_MergesFields(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	task := createTask(t, db, alice, "original", "Pending")

	svc := NewTaskService(db)
	updated, err := svc.Update(alice, task.ID, UpdateTaskRequest{
		Status:   strPtr("In Progress"),
		Priority: strPtr("high"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "original" {
		t.Errorf("title changed unexpectedly: %q", updated.Title)
	}
	if updated.Status != "In Progress" || updated.Priority != "high" {
		t.Errorf("update not applied: status=%q priority=%q", updated.Status, updated.Priority)
	}
}

func TestTaskUpdate_ValidatesEffectiveDates(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	task := models.Task{Title: "scheduled", StartDate: &start, UserID: alice}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	svc := NewTaskService(db)
	// New end date lands before the stored start date.
	_, err := svc.Update(alice, task.ID, UpdateTaskRequest{
		EndDate: timePtr(start.AddDate(0, 0, -2)),
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskUpdate_OtherAdminSeesNotFound(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	task := createTask(t, db, alice, "alice's task", "Pending")

	svc := NewTaskService(db)
	_, err := svc.Update(bob, task.ID, UpdateTaskRequest{Title: strPtr("stolen")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskDelete_RemovesAssignment(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "doomed", "Pending")
	assign(t, db, alice, task.ID, employee.ID)

	svc := NewTaskService(db)
	if err := svc.Delete(alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&models.AssignedTask{}).Where("task_id = ?", task.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected assignment removed with task, found %d rows", count)
	}

	if _, err := svc.Get(alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted task to be not found, got %v", err)
	}
}

func TestTaskSearch_MatchesTitleAndDescription(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")

	db.Create(&models.Task{Title: "Write report", UserID: alice})
	db.Create(&models.Task{Title: "Cleanup", Description: "archive old reports", UserID: alice})
	db.Create(&models.Task{Title: "Unrelated", UserID: alice})
	db.Create(&models.Task{Title: "Report for bob", UserID: bob})

	svc := NewTaskService(db)
	tasks, err := svc.Search(alice, "report", ListOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.UserID != alice {
			t.Errorf("search leaked task %d owned by another admin", task.ID)
		}
	}
}

func TestTaskFilter_StatusAndPriority(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")

	db.Create(&models.Task{Title: "a", Status: "Pending", Priority: "high", UserID: alice})
	db.Create(&models.Task{Title: "b", Status: "Pending", Priority: "low", UserID: alice})
	db.Create(&models.Task{Title: "c", Status: "Complete", Priority: "high", UserID: alice})

	svc := NewTaskService(db)

	tasks, err := svc.Filter(alice, FilterRequest{Status: "Pending"}, ListOptions{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("status filter: expected 2, got %d", len(tasks))
	}

	tasks, err = svc.Filter(alice, FilterRequest{Status: "Pending", Priority: "high"}, ListOptions{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "a" {
		t.Errorf("combined filter: expected only task a, got %d tasks", len(tasks))
	}
}
