package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/api/handlers"
	"github.com/raisa-SSTL/taskman-api/internal/api/middleware"
	"github.com/raisa-SSTL/taskman-api/internal/auth"
	"github.com/raisa-SSTL/taskman-api/internal/config"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
	"github.com/raisa-SSTL/taskman-api/internal/service"
	"gorm.io/gorm"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB, authenticator auth.Authenticator) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	// Services
	taskSvc := service.NewTaskService(db)
	employeeSvc := service.NewEmployeeService(db)
	assignmentSvc := service.NewAssignmentService(db)
	reportSvc := service.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authenticator, employeeSvc)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	employeeHandler := handlers.NewEmployeeHandler(employeeSvc)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentSvc)
	reportHandler := handlers.NewReportHandler(reportSvc)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", handlers.HealthCheck)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
	}

	// Protected routes (require authentication)
	protected := router.Group("/api/v1")
	protected.Use(authenticator.Middleware())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/auth/refresh", authHandler.Refresh)
		protected.GET("/auth/me", authHandler.Me)

		// Task endpoints
		protected.POST("/task", middleware.RequirePermission(rbac.PermCreateTasks), taskHandler.Create)
		protected.GET("/task-list", middleware.RequirePermission(rbac.PermAccessTasks), taskHandler.List)
		protected.GET("/show-task-details/:id", middleware.RequirePermission(rbac.PermAccessTasks), taskHandler.Show)
		protected.POST("/search-task", middleware.RequirePermission(rbac.PermAccessTasks), taskHandler.Search)
		protected.POST("/filter-task", middleware.RequirePermission(rbac.PermAccessTasks), taskHandler.Filter)
		protected.POST("/update-task/:id", middleware.RequirePermission(rbac.PermUpdateTasks), taskHandler.Update)
		protected.POST("/delete-task/:id", middleware.RequirePermission(rbac.PermDeleteTasks), taskHandler.Delete)

		// Employee endpoints
		protected.POST("/employee", middleware.RequirePermission(rbac.PermCreateEmployee), employeeHandler.Create)
		protected.GET("/employee-list", middleware.RequirePermission(rbac.PermAccessEmployees), employeeHandler.List)
		protected.GET("/show-employee-details/:id", middleware.RequirePermission(rbac.PermAccessEmployees), employeeHandler.Show)
		protected.POST("/update-employee/:id", middleware.RequirePermission(rbac.PermUpdateEmployee), employeeHandler.Update)
		protected.POST("/delete-employee/:id", middleware.RequirePermission(rbac.PermDeleteEmployee), employeeHandler.Delete)

		// Assignment endpoints
		protected.POST("/assign-task", middleware.RequirePermission(rbac.PermAssignTask), assignmentHandler.Assign)
		protected.GET("/all-assigned-tasks", middleware.RequirePermission(rbac.PermAssignTask), assignmentHandler.AllAssignedTasks)
		protected.GET("/employee-wise-assigned-tasks", middleware.RequirePermission(rbac.PermAssignTask), assignmentHandler.EmployeeWiseList)
		protected.GET("/employee-assigned-tasks", middleware.RequirePermission(rbac.PermAccessAssigned), assignmentHandler.EmployeeAssignedTasks)
		protected.GET("/assigned-task-details/:id", assignmentHandler.Details)
		protected.POST("/update-assigned-task/:id", middleware.RequirePermission(rbac.PermUpdateAssigned), assignmentHandler.UpdateAssignedTask)

		// Dashboard endpoints
		protected.GET("/complete-incomplete-ratio", middleware.RequirePermission(rbac.PermEmpDashboard), reportHandler.CompleteIncompleteRatio)
		protected.GET("/compare-two-months-productivity", middleware.RequirePermission(rbac.PermEmpDashboard), reportHandler.CompareTwoMonthsProductivity)
		protected.GET("/employee-wise-task-count/:year", middleware.RequirePermission(rbac.PermEmpDashboard), reportHandler.EmployeeWiseCompletedCount)
		protected.GET("/admin-dashboard-summary", middleware.RequirePermission(rbac.PermAdminDashboard), reportHandler.AdminSummary)
	}

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
