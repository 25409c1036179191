package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/platform/platformtest"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/upstreamerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(clients platform.Clients, ttl time.Duration) *server.Server {
	nop := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Cache:         config.CacheConfig{TTL: ttl},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:    &nop,
		Cache:     cache.New(cache.NewMemoryStore(time.Minute), ttl, &nop),
		Platforms: clients,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)
}

func TestOverviewCombinesPlatforms(t *testing.T) {
	clients, meta, analytics, ads := platformtest.Connected()
	d := NewDashboardService(newTestServer(clients, 0))
	d.now = fixedClock

	overview, err := d.Overview(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, overview.Days)
	assert.Equal(t, "2026-03-04", overview.Since)
	assert.Equal(t, "2026-03-10", overview.Until)

	assert.InDelta(t, 120.5, overview.Meta.Spend, 1e-9)
	assert.EqualValues(t, 10000, overview.Meta.Impressions)
	assert.InDelta(t, 2.5, overview.Meta.CTR, 1e-9)

	assert.InDelta(t, 80, overview.GoogleAds.Spend, 1e-9)
	assert.EqualValues(t, 100, overview.GoogleAds.Clicks)

	assert.InDelta(t, 200.5, overview.Totals.Spend, 1e-9)
	assert.EqualValues(t, 15000, overview.Totals.Impressions)
	assert.EqualValues(t, 350, overview.Totals.Clicks)
	assert.InDelta(t, 350.0/15000*100, overview.Totals.CTR, 1e-9)

	assert.EqualValues(t, 1200, overview.GoogleAnalytics.Sessions)
	assert.EqualValues(t, 960, overview.GoogleAnalytics.TotalUsers)
	assert.EqualValues(t, 17, overview.GoogleAnalytics.Conversions)
	assert.Len(t, overview.GoogleAnalytics.TopSources, 2)

	q := meta.LastInsights()
	require.NotNil(t, q.Range)
	assert.Equal(t, "campaign", q.Level)
	assert.Equal(t, "2026-03-04", q.Range.Since.Format(time.DateOnly))

	days, limit := analytics.LastArgs()
	assert.Equal(t, 7, days)
	assert.Equal(t, overviewSourceLimit, limit)
	assert.Equal(t, 7, ads.LastDays())
}

func TestOverviewEmptyPlatforms(t *testing.T) {
	clients := platform.Clients{
		Meta:      &platformtest.Meta{Connected: true},
		Analytics: &platformtest.Analytics{Connected: true},
		Ads:       &platformtest.Ads{Connected: true},
	}
	d := NewDashboardService(newTestServer(clients, 0))

	overview, err := d.Overview(context.Background(), 30)
	require.NoError(t, err)

	assert.Zero(t, overview.Totals.CTR)
	assert.NotNil(t, overview.GoogleAnalytics.TopSources)
	assert.Empty(t, overview.GoogleAnalytics.TopSources)
}

func TestOverviewFailsWhenOnePlatformFails(t *testing.T) {
	clients, _, analytics, _ := platformtest.Connected()
	analytics.Err = errors.New("quota exhausted")

	d := NewDashboardService(newTestServer(clients, 0))

	overview, err := d.Overview(context.Background(), 30)
	require.Error(t, err)
	assert.Nil(t, overview)

	classified := upstreamerr.Classify(err, "")
	assert.Equal(t, platform.GoogleAnalytics, classified.Platform)
}

func TestOverviewFailsWhenPlatformMissing(t *testing.T) {
	clients, _, _, _ := platformtest.Connected()
	clients.Ads = nil

	_, err := NewDashboardService(newTestServer(clients, 0)).Overview(context.Background(), 30)

	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrNotConnected)
}

func TestServicesReadThroughCache(t *testing.T) {
	clients, meta, analytics, _ := platformtest.Connected()
	services := NewServices(newTestServer(clients, time.Minute))
	ctx := context.Background()

	for range 3 {
		_, err := services.Meta.Campaigns(ctx, "last_7d")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, meta.Calls())

	_, err := services.Meta.Campaigns(ctx, "last_30d")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Calls())

	_, err = services.Analytics.TrafficSources(ctx, 30, 5)
	require.NoError(t, err)
	_, err = services.Analytics.TrafficSources(ctx, 30, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.Calls())
}

func TestServicesDoNotCacheFailures(t *testing.T) {
	clients, _, _, ads := platformtest.Connected()
	ads.Err = &platform.APIError{Platform: platform.GoogleAds, StatusCode: 500, Message: "backend error"}

	services := NewServices(newTestServer(clients, time.Minute))

	_, err := services.Ads.Summary(context.Background(), 30)
	require.Error(t, err)

	ads.Err = nil
	summary, err := services.Ads.Summary(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.Days)
	assert.Equal(t, 2, ads.Calls())
}

func TestFailuresLogWithRequestLogger(t *testing.T) {
	clients, meta, _, _ := platformtest.Connected()
	meta.Err = errors.New("connection reset")

	var buf bytes.Buffer
	requestLogger := zerolog.New(&buf).With().Str("request_id", "req-42").Logger()
	ctx := requestLogger.WithContext(context.Background())

	_, err := NewServices(newTestServer(clients, time.Minute)).Meta.Campaigns(ctx, "last_7d")
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), "platform call failed")
}
