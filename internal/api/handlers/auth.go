package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/auth"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
	"github.com/raisa-SSTL/taskman-api/internal/service"
)

// AuthHandler serves registration, login, logout, refresh, and identity
// lookup.
type AuthHandler struct {
	authenticator auth.Authenticator
	employees     *service.EmployeeService
}

func NewAuthHandler(authenticator auth.Authenticator, employees *service.EmployeeService) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, employees: employees}
}

// Register creates an admin account and returns a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authenticator.Register(req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{Success: false, Message: "Email already registered"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates an account and returns a token with the caller's role
// and permission names.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authenticator.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Invalid credentials"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout invalidates the caller's token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := rawBearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := h.authenticator.Logout(token); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Invalid token"})
		return
	}

	ok(c, "Successfully logged out", nil)
}

// Refresh exchanges the caller's token for a fresh one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := rawBearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Unauthorized"})
		return
	}

	resp, err := h.authenticator.Refresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MeResponse is the identity payload for the authenticated caller.
type MeResponse struct {
	UserID      interface{} `json:"user_id"`
	EmployeeID  *uint       `json:"employee_id,omitempty"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	Phone       string      `json:"phone,omitempty"`
	Permissions []string    `json:"permissions"`
}

// Me returns the caller's identity. Employee callers additionally get their
// employee record's id and phone; a missing record is a 404.
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)

	perms, err := rbac.UserPermissions(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := MeResponse{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: perms,
	}

	if user.Role == models.RoleEmployee {
		employee, err := h.employees.FindByUserID(user.ID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Message: "Employee record not found for the user."})
				return
			}
			handleServiceError(c, err)
			return
		}
		resp.EmployeeID = &employee.ID
		resp.Phone = employee.Phone
	}

	ok(c, "User retrieved successfully.", resp)
}

// rawBearerToken returns the bearer token string, or "" when absent.
func rawBearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
