package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/service"
)

// EmployeeHandler serves employee CRUD endpoints.
type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// CreateEmployeeRequest is the JSON body for employee creation. The linked
// login account is created in the same atomic unit.
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=15"`
}

// UpdateEmployeeRequest is the JSON body for employee update; absent fields
// are left unchanged.
type UpdateEmployeeRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Phone    *string `json:"phone" binding:"omitempty,max=15"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	employee, err := h.svc.Create(user.ID, service.CreateEmployeeRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	created(c, "Employee created successfully.", employee)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	user := currentUser(c)

	employees, total, err := h.svc.List(user.ID, listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Employees retrieved successfully.", gin.H{"employees": employees, "total": total})
}

func (h *EmployeeHandler) Show(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	employee, err := h.svc.Get(user.ID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Employee retrieved successfully.", employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	employee, err := h.svc.Update(user, id, service.UpdateEmployeeRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Employee updated successfully.", employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	id, valid := pathID(c)
	if !valid {
		return
	}

	if err := h.svc.Delete(user.ID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Employee deleted successfully.", nil)
}
