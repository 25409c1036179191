package service

import (
	"context"
	"strconv"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
)

type AdsService struct {
	server *server.Server
}

func NewAdsService(s *server.Server) *AdsService {
	return &AdsService{server: s}
}

// Summary totals the Google Ads account over the last days days.
func (a *AdsService) Summary(ctx context.Context, days int) (*platform.AdsSummary, error) {
	client := a.server.Platforms.Ads
	if client == nil || !client.IsConnected() {
		return nil, platform.NotConnectedError(platform.GoogleAds)
	}

	key := cache.Key(string(platform.GoogleAds), "summary", strconv.Itoa(days))

	return fetch(ctx, a.server, platform.GoogleAds, "summary", key, func(ctx context.Context) (*platform.AdsSummary, error) {
		return client.Summary(ctx, days)
	})
}
