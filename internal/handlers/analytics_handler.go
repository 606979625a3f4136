package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/services"
)

// AnalyticsHandler serves the metric views computed from a user's records.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RecordsChangedRequest is the change notification sent by the record store.
type RecordsChangedRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// GetReport returns analytics and predictions from one snapshot.
// @Summary     Full report
// @Description Analytics and predictions computed from the same snapshot of records
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Reference date (YYYY-MM-DD, default today)"
// @Success     200 {object} analytics.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Malformed record"
// @Failure     503 {object} ErrorResponse "Record store unavailable"
// @Router      /report [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.GetReport(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetAnalytics returns trends, breakdowns and budget comparison.
// @Summary     Analytics
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Reference date (YYYY-MM-DD, default today)"
// @Success     200 {object} analytics.Analytics "Analytics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Malformed record"
// @Failure     503 {object} ErrorResponse "Record store unavailable"
// @Router      /analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.GetReport(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": report.Analytics})
}

// GetPredictions returns projections, alerts, spending trends and the savings goal.
// @Summary     Predictions
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Reference date (YYYY-MM-DD, default today)"
// @Success     200 {object} analytics.Predictions "Predictions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Malformed record"
// @Failure     503 {object} ErrorResponse "Record store unavailable"
// @Router      /predictions [get]
func (h *AnalyticsHandler) GetPredictions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.GetReport(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": report.Predictions})
}

// GetDashboard returns the current-month summary.
// @Summary     Dashboard summary
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Reference date (YYYY-MM-DD, default today)"
// @Success     200 {object} analytics.DashboardSummary "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Malformed record"
// @Failure     503 {object} ErrorResponse "Record store unavailable"
// @Router      /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := parseAsOf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// RecordsChanged drops the cached report of a user whose records changed
// outside this API.
// @Summary     Record store change notification
// @Tags        internal
// @Accept      json
// @Produce     json
// @Param       X-Webhook-Secret header string true "Shared webhook secret"
// @Param       request body RecordsChangedRequest true "Changed user"
// @Success     200 {object} MessageResponse "Invalidated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid webhook secret"
// @Failure     503 {object} ErrorResponse "Webhook not configured"
// @Router      /internal/records-changed [post]
func (h *AnalyticsHandler) RecordsChanged(c *gin.Context) {
	var req RecordsChangedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	h.analyticsService.RecordsChanged(req.UserID)
	logger.Named("webhook").Debugw("records changed", "user_id", req.UserID)

	c.JSON(http.StatusOK, MessageResponse{Message: "Report invalidated"})
}
