package service

import (
	"errors"
	"testing"
	"time"

	"github.com/raisa-SSTL/taskman-api/internal/models"
	"gorm.io/gorm"
)

func TestAssign_Succeeds(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "work", "Pending")

	svc := NewAssignmentService(db)
	assignment, err := svc.Assign(alice, task.ID, employee.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if assignment.TaskID != task.ID || assignment.EmployeeID != employee.ID {
		t.Errorf("assignment links wrong records: task=%d employee=%d", assignment.TaskID, assignment.EmployeeID)
	}
	if assignment.AssignedBy != alice {
		t.Errorf("expected assigned_by=%s, got %s", alice, assignment.AssignedBy)
	}
}

func TestAssign_TaskOwnedByOtherAdmin(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	employee := createEmployee(t, db, bob, "worker@test.com")
	task := createTask(t, db, alice, "alice's task", "Pending")

	svc := NewAssignmentService(db)
	_, err := svc.Assign(bob, task.ID, employee.ID)

	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestAssign_CompleteTaskRejected(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "done already", models.TaskStatusComplete)

	svc := NewAssignmentService(db)
	_, err := svc.Assign(alice, task.ID, employee.ID)

	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	var count int64
	db.Model(&models.AssignedTask{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected assignment left %d rows behind", count)
	}
}

func TestAssign_EmployeeOwnedByOtherAdmin(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	employee := createEmployee(t, db, bob, "worker@test.com")
	task := createTask(t, db, alice, "work", "Pending")

	svc := NewAssignmentService(db)
	_, err := svc.Assign(alice, task.ID, employee.ID)

	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestAssign_AlreadyAssignedConflicts(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	first := createEmployee(t, db, alice, "first@test.com")
	second := createEmployee(t, db, alice, "second@test.com")
	task := createTask(t, db, alice, "popular", "Pending")
	assign(t, db, alice, task.ID, first.ID)

	svc := NewAssignmentService(db)
	_, err := svc.Assign(alice, task.ID, second.ID)

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// The original assignment is untouched.
	var existing models.AssignedTask
	if err := db.First(&existing, "task_id = ?", task.ID).Error; err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if existing.EmployeeID != first.ID {
		t.Errorf("assignment moved to employee %d", existing.EmployeeID)
	}
}

func TestAssign_OwnershipCheckedBeforeAssignment(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	aliceWorker := createEmployee(t, db, alice, "aw@test.com")
	bobWorker := createEmployee(t, db, bob, "bw@test.com")
	task := createTask(t, db, alice, "taken", "Pending")
	assign(t, db, alice, task.ID, aliceWorker.ID)

	// The task is both foreign to bob and already assigned; the ownership
	// failure is reported, not the conflict.
	svc := NewAssignmentService(db)
	_, err := svc.Assign(bob, task.ID, bobWorker.ID)

	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestAssignedTask_UniqueIndexBacksConflict(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "work", "Pending")

	if err := db.Create(&models.AssignedTask{TaskID: task.ID, EmployeeID: employee.ID, AssignedBy: alice}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.Create(&models.AssignedTask{TaskID: task.ID, EmployeeID: employee.ID, AssignedBy: alice}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestUpdateAssignedTask_MutatesTaskNotAssignment(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "work", "Pending")
	original := assign(t, db, alice, task.ID, employee.ID)

	svc := NewAssignmentService(db)
	updated, err := svc.UpdateAssignedTask(employee.UserID, task.ID, UpdateAssignedTaskRequest{
		Status:    strPtr(models.TaskStatusComplete),
		StartDate: timePtr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   timePtr(time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("update assigned task: %v", err)
	}
	if updated.Task.Status != models.TaskStatusComplete {
		t.Errorf("task status not updated, got %q", updated.Task.Status)
	}
	if updated.ID != original.ID || updated.TaskID != original.TaskID || updated.EmployeeID != original.EmployeeID {
		t.Error("assignment row changed; only the task may change")
	}

	var stored models.Task
	db.First(&stored, "id = ?", task.ID)
	if stored.Status != models.TaskStatusComplete {
		t.Errorf("stored task status %q", stored.Status)
	}
}

func TestUpdateAssignedTask_NotAssigneeSeesNotFound(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	holder := createEmployee(t, db, alice, "holder@test.com")
	other := createEmployee(t, db, alice, "other@test.com")
	task := createTask(t, db, alice, "work", "Pending")
	assign(t, db, alice, task.ID, holder.ID)

	svc := NewAssignmentService(db)
	_, err := svc.UpdateAssignedTask(other.UserID, task.ID, UpdateAssignedTaskRequest{
		Status: strPtr("In Progress"),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAssignedTask_RejectsEndBeforeStart(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	employee := createEmployee(t, db, alice, "worker@test.com")
	task := createTask(t, db, alice, "work", "Pending")
	assign(t, db, alice, task.ID, employee.ID)

	svc := NewAssignmentService(db)
	_, err := svc.UpdateAssignedTask(employee.UserID, task.ID, UpdateAssignedTaskRequest{
		StartDate: timePtr(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)),
		EndDate:   timePtr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAllAssignedTasks_ScopedToAdmin(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	aliceWorker := createEmployee(t, db, alice, "aw@test.com")
	bobWorker := createEmployee(t, db, bob, "bw@test.com")

	t1 := createTask(t, db, alice, "a1", "Pending")
	t2 := createTask(t, db, alice, "a2", "Pending")
	t3 := createTask(t, db, bob, "b1", "Pending")
	assign(t, db, alice, t1.ID, aliceWorker.ID)
	assign(t, db, alice, t2.ID, aliceWorker.ID)
	assign(t, db, bob, t3.ID, bobWorker.ID)

	svc := NewAssignmentService(db)
	assignments, err := svc.AllAssignedTasks(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	for _, a := range assignments {
		if a.AssignedBy != alice {
			t.Errorf("leaked assignment %d made by %s", a.ID, a.AssignedBy)
		}
		if a.Task.ID == 0 || a.Employee.ID == 0 {
			t.Errorf("assignment %d missing preloaded records", a.ID)
		}
	}
}

func TestAllAssignedTasks_EmptyIsNotAnError(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")

	svc := NewAssignmentService(db)
	assignments, err := svc.AllAssignedTasks(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("expected empty result, got %d", len(assignments))
	}
}

func TestEmployeeAssignedTasks(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	worker := createEmployee(t, db, alice, "worker@test.com")
	other := createEmployee(t, db, alice, "other@test.com")

	t1 := createTask(t, db, alice, "mine", "Pending")
	t2 := createTask(t, db, alice, "theirs", "Pending")
	assign(t, db, alice, t1.ID, worker.ID)
	assign(t, db, alice, t2.ID, other.ID)

	svc := NewAssignmentService(db)
	assignments, err := svc.EmployeeAssignedTasks(worker.UserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(assignments) != 1 || assignments[0].Task.Title != "mine" {
		t.Fatalf("expected only the caller's assignment, got %d", len(assignments))
	}
}

func TestDetails_VisibilityByRole(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	bob := createAdmin(t, db, "bob@test.com")
	worker := createEmployee(t, db, alice, "worker@test.com")
	other := createEmployee(t, db, alice, "other@test.com")
	task := createTask(t, db, alice, "work", "Pending")
	assignment := assign(t, db, alice, task.ID, worker.ID)

	svc := NewAssignmentService(db)

	var admin, stranger, holder, nonHolder models.User
	db.First(&admin, "id = ?", alice)
	db.First(&stranger, "id = ?", bob)
	db.First(&holder, "id = ?", worker.UserID)
	db.First(&nonHolder, "id = ?", other.UserID)

	if _, err := svc.Details(&admin, assignment.ID); err != nil {
		t.Errorf("assigning admin should see details: %v", err)
	}
	if _, err := svc.Details(&holder, assignment.ID); err != nil {
		t.Errorf("assignee should see details: %v", err)
	}
	if _, err := svc.Details(&stranger, assignment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unrelated admin: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Details(&nonHolder, assignment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unrelated employee: expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeWiseList_GroupsByEmployee(t *testing.T) {
	db := testDB(t)
	alice := createAdmin(t, db, "alice@test.com")
	first := createEmployee(t, db, alice, "first@test.com")
	second := createEmployee(t, db, alice, "second@test.com")

	t1 := createTask(t, db, alice, "a", "Pending")
	t2 := createTask(t, db, alice, "b", "Pending")
	t3 := createTask(t, db, alice, "c", "Pending")
	assign(t, db, alice, t1.ID, first.ID)
	assign(t, db, alice, t2.ID, first.ID)
	assign(t, db, alice, t3.ID, second.ID)

	svc := NewAssignmentService(db)
	grouped, err := svc.EmployeeWiseList(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}

	byEmployee := make(map[uint]int)
	for _, g := range grouped {
		byEmployee[g.Employee.ID] = len(g.Tasks)
	}
	if byEmployee[first.ID] != 2 || byEmployee[second.ID] != 1 {
		t.Errorf("unexpected grouping: %v", byEmployee)
	}
}
