package service

import (
	"context"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"golang.org/x/sync/errgroup"
)

// overviewSourceLimit is how many GA4 sources the overview lists.
const overviewSourceLimit = 5

// ChannelTotals are the delivery totals of one paid channel.
type ChannelTotals struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// TrafficTotals are the GA4 totals over the listed sources.
type TrafficTotals struct {
	Sessions    int64                    `json:"sessions"`
	TotalUsers  int64                    `json:"total_users"`
	Conversions int64                    `json:"conversions"`
	TopSources  []platform.TrafficSource `json:"top_sources"`
}

// Overview is the cross-platform summary behind the dashboard landing page.
type Overview struct {
	Days            int           `json:"days"`
	Since           string        `json:"since"`
	Until           string        `json:"until"`
	Totals          ChannelTotals `json:"totals"`
	Meta            ChannelTotals `json:"meta"`
	GoogleAds       ChannelTotals `json:"google_ads"`
	GoogleAnalytics TrafficTotals `json:"google_analytics"`
}

type DashboardService struct {
	server    *server.Server
	meta      *MetaService
	analytics *AnalyticsService
	ads       *AdsService
	now       func() time.Time
}

func NewDashboardService(s *server.Server) *DashboardService {
	return &DashboardService{
		server:    s,
		meta:      NewMetaService(s),
		analytics: NewAnalyticsService(s),
		ads:       NewAdsService(s),
		now:       time.Now,
	}
}

// Overview reads all three platforms for the same day window and combines
// them. Any platform failure fails the whole overview.
func (d *DashboardService) Overview(ctx context.Context, days int) (*Overview, error) {
	window := platform.LastDays(d.now(), days)

	var (
		insights []platform.Insight
		sources  []platform.TrafficSource
		summary  *platform.AdsSummary
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		insights, err = d.meta.Insights(gctx, platform.InsightsQuery{
			Level: "campaign",
			Range: &window,
		})
		return err
	})

	g.Go(func() error {
		var err error
		sources, err = d.analytics.TrafficSources(gctx, days, overviewSourceLimit)
		return err
	})

	g.Go(func() error {
		var err error
		summary, err = d.ads.Summary(gctx, days)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &Overview{
		Days:  days,
		Since: window.Since.Format(time.DateOnly),
		Until: window.Until.Format(time.DateOnly),
	}

	for _, row := range insights {
		overview.Meta.Spend += row.Spend
		overview.Meta.Impressions += row.Impressions
		overview.Meta.Clicks += row.Clicks
	}
	overview.Meta.CTR = ctr(overview.Meta.Clicks, overview.Meta.Impressions)

	overview.GoogleAds = ChannelTotals{
		Spend:       summary.Cost,
		Impressions: summary.Impressions,
		Clicks:      summary.Clicks,
		CTR:         ctr(summary.Clicks, summary.Impressions),
	}

	overview.Totals = ChannelTotals{
		Spend:       overview.Meta.Spend + overview.GoogleAds.Spend,
		Impressions: overview.Meta.Impressions + overview.GoogleAds.Impressions,
		Clicks:      overview.Meta.Clicks + overview.GoogleAds.Clicks,
	}
	overview.Totals.CTR = ctr(overview.Totals.Clicks, overview.Totals.Impressions)

	overview.GoogleAnalytics.TopSources = sources
	if overview.GoogleAnalytics.TopSources == nil {
		overview.GoogleAnalytics.TopSources = []platform.TrafficSource{}
	}
	for _, src := range sources {
		overview.GoogleAnalytics.Sessions += src.Sessions
		overview.GoogleAnalytics.TotalUsers += src.TotalUsers
		overview.GoogleAnalytics.Conversions += src.Conversions
	}

	return overview, nil
}

// ctr is the click-through rate in percent.
func ctr(clicks, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}
