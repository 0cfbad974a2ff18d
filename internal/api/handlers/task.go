package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/service"
)

// TaskHandler serves task CRUD, search, and filter endpoints.
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// CreateTaskRequest is the JSON body for task creation. Dates are accepted
// as "2006-01-02" or RFC 3339.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"max=50"`
	Status      string `json:"status" binding:"max=50"`
	Deadline    string `json:"deadline"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// UpdateTaskRequest is the JSON body for task update; absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,max=50"`
	Status      *string `json:"status" binding:"omitempty,max=50"`
	Deadline    *string `json:"deadline"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.svc.Create(user.ID, service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Deadline:    deadline,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	created(c, "Task created successfully!", task)
}

func (h *TaskHandler) List(c *gin.Context) {
	user := currentUser(c)

	tasks, total, err := h.svc.List(user.ID, listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Tasks retrieved successfully.", gin.H{"tasks": tasks, "total": total})
}

func (h *TaskHandler) Show(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	task, err := h.svc.Get(user.ID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Task retrieved successfully.", task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update := service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	if req.Deadline != nil {
		t, err := parseDate(*req.Deadline)
		if err != nil {
			badRequest(c, err)
			return
		}
		update.Deadline = t
	}
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

	task, err := h.svc.Update(user.ID, id, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Task updated successfully.", task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	if err := h.svc.Delete(user.ID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Task deleted successfully.", nil)
}

// SearchTaskRequest is the JSON body for keyword search.
type SearchTaskRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

func (h *TaskHandler) Search(c *gin.Context) {
	user := currentUser(c)

	var req SearchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tasks, err := h.svc.Search(user.ID, req.Keyword, listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Tasks retrieved successfully.", tasks)
}

// FilterTaskRequest is the JSON body for status/priority filtering.
type FilterTaskRequest struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

func (h *TaskHandler) Filter(c *gin.Context) {
	user := currentUser(c)

	var req FilterTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tasks, err := h.svc.Filter(user.ID, service.FilterRequest{
		Status:   req.Status,
		Priority: req.Priority,
	}, listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Tasks retrieved successfully.", tasks)
}
