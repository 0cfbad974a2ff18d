package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// UserContextKey is the key used to store user in Gin context
	UserContextKey = "user"
)

// JWTAuthenticator implements email/password authentication with HS256
// bearer tokens. Logout and refresh revoke the old token's jti in the
// database, so invalidation survives restarts.
type JWTAuthenticator struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewJWTAuthenticator creates a new JWT authenticator
func NewJWTAuthenticator(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *JWTAuthenticator {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &JWTAuthenticator{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches the hash
func VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"` // UUID stored as string
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a new admin account, grants the admin role, and returns
// a token for the fresh account.
func (a *JWTAuthenticator) Register(req RegisterRequest) (*LoginResponse, error) {
	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := rbac.AssignRole(user.ID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return a.respondWithToken(&user)
}

// Login authenticates a user and returns a JWT token
func (a *JWTAuthenticator) Login(email, password string) (*LoginResponse, error) {
	var user models.User
	result := a.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with non-existent email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("Login attempt with incorrect password", "email", email)
		return nil, ErrInvalidCredentials
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return a.respondWithToken(&user)
}

// Refresh exchanges a valid token for a fresh one. The old token's jti is
// revoked so it cannot be replayed after the exchange.
func (a *JWTAuthenticator) Refresh(tokenString string) (*LoginResponse, error) {
	user, claims, err := a.validateAndLoadUser(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if err := a.revoke(claims); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return a.respondWithToken(user)
}

// Logout invalidates the given token.
func (a *JWTAuthenticator) Logout(tokenString string) error {
	claims, err := a.validateToken(tokenString)
	if err != nil {
		return ErrUnauthorized
	}
	return a.revoke(claims)
}

// respondWithToken issues a token and builds the identity payload.
func (a *JWTAuthenticator) respondWithToken(user *models.User) (*LoginResponse, error) {
	token, err := a.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	perms, err := rbac.UserPermissions(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(a.tokenTTL.Seconds()),
		User: UserInfo{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Role:        user.Role,
			Permissions: perms,
		},
	}, nil
}

// generateToken creates a JWT token for a user
func (a *JWTAuthenticator) generateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "taskman",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// validateToken validates a JWT token and returns claims. Revoked tokens
// fail validation even when their signature and expiry are fine.
func (a *JWTAuthenticator) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}

	var revoked models.RevokedToken
	if err := a.db.Where("jti = ?", claims.ID).First(&revoked).Error; err == nil {
		return nil, ErrUnauthorized
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return claims, nil
}

// revoke records the token's jti in the denylist.
func (a *JWTAuthenticator) revoke(claims *Claims) error {
	expiry := time.Now().Add(a.tokenTTL)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	return a.db.Create(&models.RevokedToken{
		JTI:       claims.ID,
		ExpiresAt: expiry,
	}).Error
}

// Middleware returns a Gin middleware for authentication.
func (a *JWTAuthenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			c.Abort()
			return
		}

		user, _, err := a.validateAndLoadUser(tokenString)
		if err != nil {
			slog.Warn("Invalid token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// validateAndLoadUser validates a token and loads the account it names.
func (a *JWTAuthenticator) validateAndLoadUser(tokenString string) (*models.User, *Claims, error) {
	claims, err := a.validateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if result := a.db.First(&user, "id = ?", userID); result.Error != nil {
		return nil, nil, fmt.Errorf("user not found: %w", result.Error)
	}

	return &user, claims, nil
}

// GetUserFromContext extracts the authenticated user from the Gin context
func (a *JWTAuthenticator) GetUserFromContext(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, ErrUnauthorized
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, errors.New("invalid user in context")
	}

	return user, nil
}
