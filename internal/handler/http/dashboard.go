package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetOverview returns the operations dashboard tiles
	GetOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetOverview handles GET /dashboard/overview
func (h *dashboardHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetOverview(r.Context(), ws.Client)
	if err != nil {
		slog.Error("GetOverview error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
