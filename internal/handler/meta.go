package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type MetaHandler struct {
	Handler
	meta *service.MetaService
}

func NewMetaHandler(s *server.Server, meta *service.MetaService) *MetaHandler {
	return &MetaHandler{Handler: NewHandler(s), meta: meta}
}

type CampaignsResponse struct {
	DatePreset string              `json:"date_preset"`
	Campaigns  []platform.Campaign `json:"campaigns"`
}

type InsightsResponse struct {
	DatePreset string             `json:"date_preset"`
	Level      string             `json:"level"`
	Insights   []platform.Insight `json:"insights"`
}

func (h *MetaHandler) GetCampaigns(c echo.Context, req *CampaignsRequest) (*CampaignsResponse, error) {
	campaigns, err := h.meta.Campaigns(c.Request().Context(), req.DatePreset)
	if err != nil {
		return nil, err
	}

	return &CampaignsResponse{DatePreset: req.DatePreset, Campaigns: campaigns}, nil
}

func (h *MetaHandler) GetInsights(c echo.Context, req *InsightsRequest) (*InsightsResponse, error) {
	insights, err := h.meta.Insights(c.Request().Context(), platform.InsightsQuery{
		DatePreset: req.DatePreset,
		Level:      req.Level,
	})
	if err != nil {
		return nil, err
	}

	return &InsightsResponse{DatePreset: req.DatePreset, Level: req.Level, Insights: insights}, nil
}
