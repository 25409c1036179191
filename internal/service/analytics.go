package service

import (
	"context"
	"strconv"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
)

type AnalyticsService struct {
	server *server.Server
}

func NewAnalyticsService(s *server.Server) *AnalyticsService {
	return &AnalyticsService{server: s}
}

// TrafficSources returns the top limit sources by sessions over days days.
func (a *AnalyticsService) TrafficSources(ctx context.Context, days, limit int) ([]platform.TrafficSource, error) {
	client := a.server.Platforms.Analytics
	if client == nil || !client.IsConnected() {
		return nil, platform.NotConnectedError(platform.GoogleAnalytics)
	}

	key := cache.Key(string(platform.GoogleAnalytics), "traffic_sources", strconv.Itoa(days), strconv.Itoa(limit))

	return fetch(ctx, a.server, platform.GoogleAnalytics, "traffic_sources", key, func(ctx context.Context) ([]platform.TrafficSource, error) {
		return client.TrafficSources(ctx, days, limit)
	})
}
