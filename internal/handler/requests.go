package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/platform/meta"
	"github.com/deppfellow/marketing-dashboard/internal/validation"
)

// Query parameter bounds and defaults.
const (
	DefaultTrafficLimit = 10
	MaxTrafficLimit     = 100

	DefaultDays = 30
	MaxDays     = 365
)

// StatusRequest has no parameters.
type StatusRequest struct{}

func (r *StatusRequest) BindQuery(*validation.Query) {}

// CampaignsRequest is GET /api/meta/campaigns.
type CampaignsRequest struct {
	DatePreset string
}

func (r *CampaignsRequest) BindQuery(q *validation.Query) {
	r.DatePreset = q.Enum("date_preset", meta.DefaultDatePreset, meta.DatePresets...)
}

// InsightsRequest is GET /api/meta/insights.
type InsightsRequest struct {
	DatePreset string
	Level      string
}

func (r *InsightsRequest) BindQuery(q *validation.Query) {
	r.DatePreset = q.Enum("date_preset", meta.DefaultDatePreset, meta.DatePresets...)
	r.Level = q.Enum("level", meta.DefaultLevel, meta.Levels...)
}

// TrafficSourcesRequest is GET /api/ga/traffic_sources.
type TrafficSourcesRequest struct {
	Limit int
	Days  int
}

func (r *TrafficSourcesRequest) BindQuery(q *validation.Query) {
	r.Limit = q.Int("limit", DefaultTrafficLimit, validation.Between(1, MaxTrafficLimit))
	r.Days = q.Int("days", DefaultDays, validation.Between(1, MaxDays))
}

// AdsSummaryRequest is GET /api/ads/summary.
type AdsSummaryRequest struct {
	Days int
}

func (r *AdsSummaryRequest) BindQuery(q *validation.Query) {
	r.Days = q.Int("days", DefaultDays, validation.Between(1, MaxDays))
}

// OverviewRequest is GET /api/dashboard/overview.
type OverviewRequest struct {
	Days int
}

func (r *OverviewRequest) BindQuery(q *validation.Query) {
	r.Days = q.Int("days", DefaultDays, validation.Between(1, MaxDays))
}
