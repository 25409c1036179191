package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
)

type MetaService struct {
	server *server.Server
}

func NewMetaService(s *server.Server) *MetaService {
	return &MetaService{server: s}
}

func (m *MetaService) client() (platform.MetaClient, error) {
	if c := m.server.Platforms.Meta; c != nil && c.IsConnected() {
		return c, nil
	}
	return nil, platform.NotConnectedError(platform.Meta)
}

// Campaigns lists campaigns with totals for datePreset.
func (m *MetaService) Campaigns(ctx context.Context, datePreset string) ([]platform.Campaign, error) {
	client, err := m.client()
	if err != nil {
		return nil, err
	}

	key := cache.Key(string(platform.Meta), "campaigns", datePreset)

	return fetch(ctx, m.server, platform.Meta, "campaigns", key, func(ctx context.Context) ([]platform.Campaign, error) {
		return client.Campaigns(ctx, datePreset)
	})
}

// Insights reads insights rows at the requested level.
func (m *MetaService) Insights(ctx context.Context, q platform.InsightsQuery) ([]platform.Insight, error) {
	client, err := m.client()
	if err != nil {
		return nil, err
	}

	window := q.DatePreset
	if q.Range != nil {
		window = fmt.Sprintf("%s_%s", q.Range.Since.Format("20060102"), q.Range.Until.Format("20060102"))
	}
	key := cache.Key(string(platform.Meta), "insights", q.Level, window)

	return fetch(ctx, m.server, platform.Meta, "insights", key, func(ctx context.Context) ([]platform.Insight, error) {
		return client.Insights(ctx, q)
	})
}
