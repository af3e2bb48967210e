package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholark/scholark-backend/internal/response"
	"github.com/scholark/scholark-backend/internal/service"
)

// StatsHandler serves enrollment statistics.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// EnrollmentOverview godoc
// GET /api/v1/stats/enrollment
// Returns active counts per class and per class type. Served from Redis when
// fresh; rebuilt from Postgres otherwise.
func (h *StatsHandler) EnrollmentOverview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, overview)
}
