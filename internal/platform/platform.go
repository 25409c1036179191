// Package platform defines the external advertising and analytics
// platforms the dashboard reads from.
//
// The HTTP layer only ever sees the interfaces below. Concrete clients live
// in the meta, analytics and ads subpackages and are built once at startup;
// a platform without credentials simply has no client.
package platform

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Name identifies a platform in status responses, cache keys and errors.
type Name string

const (
	Meta            Name = "meta"
	GoogleAnalytics Name = "google_analytics"
	GoogleAds       Name = "google_ads"
)

// ErrNotConnected is returned when a platform has no configured client.
var ErrNotConnected = errors.New("platform client not connected")

// ConnectionError reports which platform is missing. It matches
// ErrNotConnected with errors.Is.
type ConnectionError struct {
	Platform Name
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, ErrNotConnected)
}

func (e *ConnectionError) Unwrap() error {
	return ErrNotConnected
}

// NotConnectedError returns the error for a platform without a client.
func NotConnectedError(name Name) error {
	return &ConnectionError{Platform: name}
}

// APIError is a failure reported by a platform API.
type APIError struct {
	Platform   Name
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Platform, e.StatusCode, e.Message)
}

// DateRange is an inclusive calendar window.
type DateRange struct {
	Since time.Time
	Until time.Time
}

// LastDays returns the window of the last n days ending today.
func LastDays(now time.Time, n int) DateRange {
	until := now.UTC().Truncate(24 * time.Hour)
	return DateRange{
		Since: until.AddDate(0, 0, -(n - 1)),
		Until: until,
	}
}

// Campaign is one Meta campaign with its delivery totals.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Objective   string  `json:"objective,omitempty"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
}

// Insight is one Meta insights row at the requested level.
type Insight struct {
	CampaignID   string  `json:"campaign_id,omitempty"`
	CampaignName string  `json:"campaign_name,omitempty"`
	AdsetID      string  `json:"adset_id,omitempty"`
	AdsetName    string  `json:"adset_name,omitempty"`
	AdID         string  `json:"ad_id,omitempty"`
	AdName       string  `json:"ad_name,omitempty"`
	Spend        float64 `json:"spend"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	CTR          float64 `json:"ctr"`
	CPC          float64 `json:"cpc"`
	DateStart    string  `json:"date_start,omitempty"`
	DateStop     string  `json:"date_stop,omitempty"`
}

// InsightsQuery selects Meta insights. When Range is set it takes
// precedence over DatePreset.
type InsightsQuery struct {
	DatePreset string
	Level      string
	Range      *DateRange
}

// TrafficSource is one GA4 session source.
type TrafficSource struct {
	Source      string `json:"source"`
	Medium      string `json:"medium"`
	Sessions    int64  `json:"sessions"`
	TotalUsers  int64  `json:"total_users"`
	Conversions int64  `json:"conversions"`
}

// AdsCampaign is one Google Ads campaign with its metrics.
type AdsCampaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Cost        float64 `json:"cost"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions float64 `json:"conversions"`
}

// AdsSummary is the Google Ads account summary over a day window.
type AdsSummary struct {
	Days        int           `json:"days"`
	Since       string        `json:"since"`
	Until       string        `json:"until"`
	Cost        float64       `json:"cost"`
	Impressions int64         `json:"impressions"`
	Clicks      int64         `json:"clicks"`
	Conversions float64       `json:"conversions"`
	CTR         float64       `json:"ctr"`
	Campaigns   []AdsCampaign `json:"campaigns"`
}

// MetaClient reads from the Meta Marketing API.
type MetaClient interface {
	IsConnected() bool
	Campaigns(ctx context.Context, datePreset string) ([]Campaign, error)
	Insights(ctx context.Context, q InsightsQuery) ([]Insight, error)
}

// AnalyticsClient reads from the Google Analytics 4 Data API.
type AnalyticsClient interface {
	IsConnected() bool
	TrafficSources(ctx context.Context, days, limit int) ([]TrafficSource, error)
}

// AdsClient reads from the Google Ads API.
type AdsClient interface {
	IsConnected() bool
	Summary(ctx context.Context, days int) (*AdsSummary, error)
}

// Clients groups the platform clients. Any of them may be nil.
type Clients struct {
	Meta      MetaClient
	Analytics AnalyticsClient
	Ads       AdsClient
}

// ConnectionStatus is the connection state of one platform.
type ConnectionStatus struct {
	Connected bool `json:"connected"`
}

// Status is the connection state of every platform.
type Status struct {
	Meta            ConnectionStatus `json:"meta"`
	GoogleAnalytics ConnectionStatus `json:"google_analytics"`
	GoogleAds       ConnectionStatus `json:"google_ads"`
}

// Status reports which platforms are usable. It never fails.
func (c Clients) Status() Status {
	return Status{
		Meta:            ConnectionStatus{Connected: c.Meta != nil && c.Meta.IsConnected()},
		GoogleAnalytics: ConnectionStatus{Connected: c.Analytics != nil && c.Analytics.IsConnected()},
		GoogleAds:       ConnectionStatus{Connected: c.Ads != nil && c.Ads.IsConnected()},
	}
}
