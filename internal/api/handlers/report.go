package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/service"
)

// ReportHandler serves the dashboard endpoints.
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) CompleteIncompleteRatio(c *gin.Context) {
	user := currentUser(c)

	report, err := h.svc.CompleteIncompleteRatio(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Task ratio retrieved successfully.", report)
}

func (h *ReportHandler) CompareTwoMonthsProductivity(c *gin.Context) {
	user := currentUser(c)

	report, err := h.svc.CompareTwoMonthsProductivity(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Productivity comparison retrieved successfully.", report)
}

func (h *ReportHandler) EmployeeWiseCompletedCount(c *gin.Context) {
	user := currentUser(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "Invalid year"})
		return
	}

	counts, err := h.svc.EmployeeWiseCompletedCount(user.ID, year)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Employee-wise task counts retrieved successfully.", counts)
}

func (h *ReportHandler) AdminSummary(c *gin.Context) {
	user := currentUser(c)

	summary, err := h.svc.Summary(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ok(c, "Dashboard summary retrieved successfully.", summary)
}
