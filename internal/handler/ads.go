package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type AdsHandler struct {
	Handler
	ads *service.AdsService
}

func NewAdsHandler(s *server.Server, ads *service.AdsService) *AdsHandler {
	return &AdsHandler{Handler: NewHandler(s), ads: ads}
}

func (h *AdsHandler) GetSummary(c echo.Context, req *AdsSummaryRequest) (*platform.AdsSummary, error) {
	return h.ads.Summary(c.Request().Context(), req.Days)
}
