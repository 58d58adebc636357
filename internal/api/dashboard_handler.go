package api

import (
	"log/slog"
	"net/http"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/service"
)

// DashboardHandler serves the /task/dashboard aggregates. Each route is
// restricted to the caller's own tasks.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Summary handles GET /task/dashboard/{id}.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, summary)
}

// BarChart handles GET /task/dashboard/barchart/{id}.
func (h *DashboardHandler) BarChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	breakdown, err := h.dashboardService.Breakdown(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, breakdown)
}

// LineChart handles GET /task/dashboard/linechart/{id}.
func (h *DashboardHandler) LineChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	activity, err := h.dashboardService.WeeklyActivity(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, activity)
}

// Overview handles GET /task/dashboard/overview/{id}.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	overview, err := h.dashboardService.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, overviewToResponse(overview))
}
