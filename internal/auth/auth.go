package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
)

// RegisterRequest represents a registration request. Registration creates an
// admin account; employee accounts are only created by admins.
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the identity payload returned with a token: who the caller is,
// their role, and the permission names that role grants.
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// LoginResponse represents a successful token issuance
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"` // seconds
	User        UserInfo `json:"user"`
}

// Authenticator is an interface for authentication providers
type Authenticator interface {
	// Register creates a new admin account and returns a token for it
	Register(req RegisterRequest) (*LoginResponse, error)

	// Login authenticates a user and returns a JWT token
	Login(email, password string) (*LoginResponse, error)

	// Refresh exchanges a valid token for a fresh one, invalidating the old
	Refresh(tokenString string) (*LoginResponse, error)

	// Logout invalidates the given token
	Logout(tokenString string) error

	// Middleware returns a Gin middleware for authentication
	Middleware() gin.HandlerFunc

	// GetUserFromContext extracts the authenticated user from the Gin context
	GetUserFromContext(c *gin.Context) (*models.User, error)
}
