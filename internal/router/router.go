// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/marketing-dashboard/internal/handler"
	"github.com/deppfellow/marketing-dashboard/internal/middleware"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with every middleware and route.
//
// Middleware order matters: the request id must exist before New Relic and
// the context enhancer read it, and the logger must exist before the rate
// limiter and request logger use it.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.RateLimiter(),
	)

	registerSystemRoutes(router, h)
	registerAPIRoutes(router, h)

	return router
}

// registerAPIRoutes registers the dashboard endpoints under /api.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api")

	api.GET("/status", handler.Handle(h.Status.Handler, h.Status.GetStatus, http.StatusOK))

	api.GET("/meta/campaigns", handler.Handle(h.Meta.Handler, h.Meta.GetCampaigns, http.StatusOK))
	api.GET("/meta/insights", handler.Handle(h.Meta.Handler, h.Meta.GetInsights, http.StatusOK))

	api.GET("/ga/traffic_sources", handler.Handle(h.Analytics.Handler, h.Analytics.GetTrafficSources, http.StatusOK))

	api.GET("/ads/summary", handler.Handle(h.Ads.Handler, h.Ads.GetSummary, http.StatusOK))

	api.GET("/dashboard/overview", handler.Handle(h.Dashboard.Handler, h.Dashboard.GetOverview, http.StatusOK))
}
