// Package analytics provides a Google Analytics 4 Data API client.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client runs reports against one GA4 property.
type Client struct {
	svc        *analyticsdata.Service
	propertyID string
	now        func() time.Time
}

// NewClient creates a Client from config.
//
// Credentials come from cfg.CredentialsFile, or from Application Default
// Credentials when it is empty. Extra opts are appended last so callers can
// override the endpoint or authentication.
func NewClient(ctx context.Context, cfg config.GoogleAnalyticsConfig, opts ...option.ClientOption) (*Client, error) {
	if !cfg.Configured() {
		return nil, platform.NotConnectedError(platform.GoogleAnalytics)
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := analyticsdata.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics data service: %w", err)
	}

	return &Client{svc: svc, propertyID: cfg.PropertyID, now: time.Now}, nil
}

// IsConnected reports whether the client has a property to query.
func (c *Client) IsConnected() bool {
	return c != nil && c.svc != nil && c.propertyID != ""
}

// TrafficSources returns the top limit source/medium pairs by sessions over
// the last days days. The window matches platform.LastDays, the one the
// Meta and Google Ads clients use.
func (c *Client) TrafficSources(ctx context.Context, days, limit int) ([]platform.TrafficSource, error) {
	window := platform.LastDays(c.now(), days)

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: window.Since.Format(time.DateOnly),
			EndDate:   window.Until.Format(time.DateOnly),
		}},
		Dimensions: []*analyticsdata.Dimension{
			{Name: "sessionSource"},
			{Name: "sessionMedium"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "sessions"},
			{Name: "totalUsers"},
			{Name: "conversions"},
		},
		OrderBys: []*analyticsdata.OrderBy{{
			Desc:   true,
			Metric: &analyticsdata.MetricOrderBy{MetricName: "sessions"},
		}},
		Limit: int64(limit),
	}

	resp, err := c.svc.Properties.RunReport("properties/"+c.propertyID, req).Context(ctx).Do()
	if err != nil {
		return nil, convertError(err)
	}

	sources := make([]platform.TrafficSource, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		sources = append(sources, platform.TrafficSource{
			Source:      dimension(row, 0),
			Medium:      dimension(row, 1),
			Sessions:    metric(row, 0),
			TotalUsers:  metric(row, 1),
			Conversions: metric(row, 2),
		})
	}

	return sources, nil
}

func dimension(row *analyticsdata.Row, i int) string {
	if i >= len(row.DimensionValues) || row.DimensionValues[i] == nil {
		return ""
	}
	return row.DimensionValues[i].Value
}

// metric reads a metric value. GA4 sends numbers as strings and may send
// "3.0" for integer metrics.
func metric(row *analyticsdata.Row, i int) int64 {
	if i >= len(row.MetricValues) || row.MetricValues[i] == nil {
		return 0
	}
	f, err := strconv.ParseFloat(row.MetricValues[i].Value, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func convertError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &platform.APIError{
			Platform:   platform.GoogleAnalytics,
			StatusCode: apiErr.Code,
			Message:    msg,
		}
	}
	return fmt.Errorf("google analytics request failed: %w", err)
}
