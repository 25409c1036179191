package service

import (
	"github.com/deppfellow/marketing-dashboard/internal/server"
)

// Services groups the use cases the handlers call.
type Services struct {
	Meta      *MetaService
	Analytics *AnalyticsService
	Ads       *AdsService
	Dashboard *DashboardService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Meta:      NewMetaService(s),
		Analytics: NewAnalyticsService(s),
		Ads:       NewAdsService(s),
		Dashboard: NewDashboardService(s),
	}
}
