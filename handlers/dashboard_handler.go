package handlers

import (
	"net/http"

	"github.com/nexusarena/tournament-service/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: ds,
	}
}

// StatsHandler godoc
// @Summary Tournament collection overview
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
