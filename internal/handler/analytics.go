package handler

import (
	"net/http"

	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the dashboard projections.
type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Overview godoc
// @Summary      GST slab distribution, top suppliers, and totals
// @Tags         analytics
// @Produce      json
// @Success      200 {object} dto.AnalyticsResponse
// @Router       /v1/analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	resp, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
