// Package handler is the first layer after the router.
//
// It reads and validates query parameters through the validation package,
// calls the service layer, and writes JSON responses. Errors are returned to
// the global error handler, which renders the shared envelope.
package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Status    *StatusHandler
	Meta      *MetaHandler
	Analytics *AnalyticsHandler
	Ads       *AdsHandler
	Dashboard *DashboardHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Status:    NewStatusHandler(s),
		Meta:      NewMetaHandler(s, services.Meta),
		Analytics: NewAnalyticsHandler(s, services.Analytics),
		Ads:       NewAdsHandler(s, services.Ads),
		Dashboard: NewDashboardHandler(s, services.Dashboard),
	}
}
