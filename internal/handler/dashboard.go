package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	Handler
	dashboard *service.DashboardService
}

func NewDashboardHandler(s *server.Server, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Handler: NewHandler(s), dashboard: dashboard}
}

func (h *DashboardHandler) GetOverview(c echo.Context, req *OverviewRequest) (*service.Overview, error) {
	return h.dashboard.Overview(c.Request().Context(), req.Days)
}
