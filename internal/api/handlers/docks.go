package handlers

import (
	"net/http"
	"robot-route-service/internal/api/dto"
	"robot-route-service/internal/ports"
	"robot-route-service/internal/services"
)

// DockHandler serves the dock dashboard.
type DockHandler struct {
	Repo ports.DeliveryRepository
}

func (h *DockHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rows, err := services.Dashboard(r.Context(), h.Repo)
	if err != nil {
		writeServiceError(w, r, "dashboard", err)
		return
	}

	res := dto.DashboardResponse{DockData: make([]dto.DockSummaryResponse, 0, len(rows))}
	for _, d := range rows {
		res.DockData = append(res.DockData, dto.DockSummaryResponse{
			ID:          d.DockID,
			Name:        d.Name,
			CurrentLoad: d.CurrentLoad,
			TotalLoad:   d.TotalLoad,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
