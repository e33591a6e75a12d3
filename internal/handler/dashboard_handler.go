package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymstack/studio-ops-api/internal/service"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// DashboardHandler exposes the studio summary endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Studio activity summary
// @Tags Dashboard
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD, defaults to today)"
// @Param to query string false "Range end (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), studioFromContext(c), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
