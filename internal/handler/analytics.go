package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct {
	Handler
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(s *server.Server, analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Handler: NewHandler(s), analytics: analytics}
}

type TrafficSourcesResponse struct {
	Days    int                      `json:"days"`
	Limit   int                      `json:"limit"`
	Sources []platform.TrafficSource `json:"sources"`
}

func (h *AnalyticsHandler) GetTrafficSources(c echo.Context, req *TrafficSourcesRequest) (*TrafficSourcesResponse, error) {
	sources, err := h.analytics.TrafficSources(c.Request().Context(), req.Days, req.Limit)
	if err != nil {
		return nil, err
	}

	return &TrafficSourcesResponse{Days: req.Days, Limit: req.Limit, Sources: sources}, nil
}
