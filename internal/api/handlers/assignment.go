package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/service"
)

// AssignmentHandler serves assignment creation, listing, and the assignee's
// update of the underlying task.
type AssignmentHandler struct {
	svc *service.AssignmentService
}

func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// AssignTaskRequest is the JSON body for assigning a task to an employee.
type AssignTaskRequest struct {
	TaskID     uint `json:"task_id" binding:"required"`
	EmployeeID uint `json:"employee_id" binding:"required"`
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	user := currentUser(c)

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	assignment, err := h.svc.Assign(user.ID, req.TaskID, req.EmployeeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	created(c, "Task assigned successfully", assignment)
}

// UpdateAssignedTaskRequest is the JSON body for the assignee's update of
// the underlying task's schedule and status.
type UpdateAssignedTaskRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status" binding:"omitempty,max=50"`
}

func (h *AssignmentHandler) UpdateAssignedTask(c *gin.Context) {
	user := currentUser(c)
	taskID, valid := pathID(c)
	if !valid {
		return
	}

	var req UpdateAssignedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update := service.UpdateAssignedTaskRequest{Status: req.Status}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			badRequest(c, err)
			return
		}
		update.StartDate = t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			badRequest(c, err)
			return
		}
		update.EndDate = t
	}

	assignment, err := h.svc.UpdateAssignedTask(user.ID, taskID, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Assigned task updated successfully.", assignment)
}

func (h *AssignmentHandler) AllAssignedTasks(c *gin.Context) {
	user := currentUser(c)

	assignments, err := h.svc.AllAssignedTasks(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Assigned tasks retrieved successfully.", assignments)
}

func (h *AssignmentHandler) EmployeeAssignedTasks(c *gin.Context) {
	user := currentUser(c)

	assignments, err := h.svc.EmployeeAssignedTasks(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Assigned tasks retrieved successfully.", assignments)
}

func (h *AssignmentHandler) Details(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	assignment, err := h.svc.Details(user, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Assigned task retrieved successfully.", assignment)
}

func (h *AssignmentHandler) EmployeeWiseList(c *gin.Context) {
	user := currentUser(c)

	grouped, err := h.svc.EmployeeWiseList(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Assigned tasks retrieved successfully.", grouped)
}
