package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// History godoc
// GET /api/v1/attempts
func (h *AnalyticsHandler) History(c *gin.Context) {
	attempts, err := h.analyticsService.History(c.Request.Context(), userID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if attempts == nil {
		attempts = []model.Attempt{}
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// Report godoc
// GET /api/v1/attempts/report
func (h *AnalyticsHandler) Report(c *gin.Context) {
	report, err := h.analyticsService.Report(c.Request.Context(), userID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
