// Package platformtest provides in-memory platform clients for tests.
package platformtest

import (
	"context"
	"sync"

	"github.com/deppfellow/marketing-dashboard/internal/platform"
)

// Meta is a fake platform.MetaClient.
type Meta struct {
	Connected     bool
	CampaignsData []platform.Campaign
	InsightsData  []platform.Insight
	Err           error

	mu          sync.Mutex
	calls       int
	lastPreset  string
	lastInsight platform.InsightsQuery
}

func (m *Meta) IsConnected() bool { return m.Connected }

func (m *Meta) Campaigns(_ context.Context, datePreset string) ([]platform.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPreset = datePreset
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CampaignsData, nil
}

func (m *Meta) Insights(_ context.Context, q platform.InsightsQuery) ([]platform.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastInsight = q
	if m.Err != nil {
		return nil, m.Err
	}
	return m.InsightsData, nil
}

// Calls returns how many fetches reached the fake.
func (m *Meta) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPreset returns the date preset of the last Campaigns call.
func (m *Meta) LastPreset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPreset
}

// LastInsights returns the query of the last Insights call.
func (m *Meta) LastInsights() platform.InsightsQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInsight
}

// Analytics is a fake platform.AnalyticsClient.
type Analytics struct {
	Connected bool
	Sources   []platform.TrafficSource
	Err       error

	mu        sync.Mutex
	calls     int
	lastDays  int
	lastLimit int
}

func (a *Analytics) IsConnected() bool { return a.Connected }

func (a *Analytics) TrafficSources(_ context.Context, days, limit int) ([]platform.TrafficSource, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.lastDays, a.lastLimit = days, limit
	if a.Err != nil {
		return nil, a.Err
	}
	if limit < len(a.Sources) {
		return a.Sources[:limit], nil
	}
	return a.Sources, nil
}

// Calls returns how many fetches reached the fake.
func (a *Analytics) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// LastArgs returns the days and limit of the last call.
func (a *Analytics) LastArgs() (days, limit int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastDays, a.lastLimit
}

// Ads is a fake platform.AdsClient.
type Ads struct {
	Connected bool
	Data      *platform.AdsSummary
	Err       error

	mu       sync.Mutex
	calls    int
	lastDays int
}

func (a *Ads) IsConnected() bool { return a.Connected }

func (a *Ads) Summary(_ context.Context, days int) (*platform.AdsSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.lastDays = days
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Data == nil {
		return &platform.AdsSummary{Days: days, Campaigns: []platform.AdsCampaign{}}, nil
	}
	summary := *a.Data
	summary.Days = days
	return &summary, nil
}

// Calls returns how many fetches reached the fake.
func (a *Ads) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// LastDays returns the days of the last call.
func (a *Ads) LastDays() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastDays
}

// Connected returns Clients with every fake connected and holding data.
func Connected() (platform.Clients, *Meta, *Analytics, *Ads) {
	meta := &Meta{
		Connected: true,
		CampaignsData: []platform.Campaign{
			{ID: "1", Name: "Spring Sale", Status: "ACTIVE", Spend: 120.5, Impressions: 10000, Clicks: 250},
			{ID: "2", Name: "Retargeting", Status: "PAUSED", Spend: 30, Impressions: 2000, Clicks: 40},
		},
		InsightsData: []platform.Insight{
			{CampaignID: "1", CampaignName: "Spring Sale", Spend: 120.5, Impressions: 10000, Clicks: 250, CTR: 2.5},
		},
	}
	analytics := &Analytics{
		Connected: true,
		Sources: []platform.TrafficSource{
			{Source: "google", Medium: "organic", Sessions: 900, TotalUsers: 700, Conversions: 12},
			{Source: "facebook", Medium: "cpc", Sessions: 300, TotalUsers: 260, Conversions: 5},
		},
	}
	ads := &Ads{
		Connected: true,
		Data: &platform.AdsSummary{
			Cost:        80,
			Impressions: 5000,
			Clicks:      100,
			Conversions: 4,
			CTR:         2,
			Campaigns: []platform.AdsCampaign{
				{ID: "9", Name: "Search", Status: "ENABLED", Cost: 80, Impressions: 5000, Clicks: 100, Conversions: 4},
			},
		},
	}

	return platform.Clients{Meta: meta, Analytics: analytics, Ads: ads}, meta, analytics, ads
}
