// Package ads provides a Google Ads API client over the REST interface.
//
// Requests are GAQL searches against one customer. Authentication uses an
// OAuth2 refresh token plus the account's developer token.
package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	requestTimeout = 30 * time.Second

	// maxPages caps how many nextPageToken links are followed per search.
	maxPages = 10

	maxBody = 16 << 20
)

const campaignQuery = `SELECT campaign.id, campaign.name, campaign.status,
  metrics.cost_micros, metrics.impressions, metrics.clicks, metrics.conversions
FROM campaign
WHERE segments.date BETWEEN '%s' AND '%s'
ORDER BY metrics.cost_micros DESC`

// Client searches one Google Ads customer.
type Client struct {
	http            *retryablehttp.Client
	baseURL         string
	version         string
	customerID      string
	loginCustomerID string
	developerToken  string
	now             func() time.Time
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	tokenSource oauth2.TokenSource
	now         func() time.Time
}

// WithTokenSource replaces the refresh-token source built from config.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *clientOptions) {
		o.tokenSource = ts
	}
}

// WithClock sets the clock used to compute day windows.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}

// NewClient creates a Client from config.
//
// It returns platform.ErrNotConnected when credentials are missing.
func NewClient(ctx context.Context, cfg config.GoogleAdsConfig, logger *zerolog.Logger, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, platform.NotConnectedError(platform.GoogleAds)
	}

	o := clientOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if o.tokenSource == nil {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
		}
		o.tokenSource = oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}

	httpClient := platform.NewRetryableClient(platform.GoogleAds, logger, requestTimeout)
	authed := oauth2.NewClient(ctx, o.tokenSource)
	authed.Timeout = requestTimeout
	httpClient.HTTPClient = authed

	return &Client{
		http:            httpClient,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		version:         cfg.APIVersion,
		customerID:      stripDashes(cfg.CustomerID),
		loginCustomerID: stripDashes(cfg.LoginCustomerID),
		developerToken:  cfg.DeveloperToken,
		now:             o.now,
	}, nil
}

// IsConnected reports whether the client holds credentials.
func (c *Client) IsConnected() bool {
	return c != nil && c.developerToken != "" && c.customerID != ""
}

// Summary totals every campaign's metrics over the last days days.
func (c *Client) Summary(ctx context.Context, days int) (*platform.AdsSummary, error) {
	window := platform.LastDays(c.now(), days)
	since := window.Since.Format(time.DateOnly)
	until := window.Until.Format(time.DateOnly)

	summary := &platform.AdsSummary{
		Days:      days,
		Since:     since,
		Until:     until,
		Campaigns: []platform.AdsCampaign{},
	}

	query := fmt.Sprintf(campaignQuery, since, until)
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		body, err := c.search(ctx, query, pageToken)
		if err != nil {
			return nil, err
		}

		parsed := gjson.ParseBytes(body)
		parsed.Get("results").ForEach(func(_, row gjson.Result) bool {
			campaign := platform.AdsCampaign{
				ID:          row.Get("campaign.id").String(),
				Name:        row.Get("campaign.name").String(),
				Status:      row.Get("campaign.status").String(),
				Cost:        float64(row.Get("metrics.costMicros").Int()) / 1e6,
				Impressions: row.Get("metrics.impressions").Int(),
				Clicks:      row.Get("metrics.clicks").Int(),
				Conversions: row.Get("metrics.conversions").Float(),
			}

			summary.Campaigns = append(summary.Campaigns, campaign)
			summary.Cost += campaign.Cost
			summary.Impressions += campaign.Impressions
			summary.Clicks += campaign.Clicks
			summary.Conversions += campaign.Conversions
			return true
		})

		pageToken = parsed.Get("nextPageToken").String()
		if pageToken == "" {
			break
		}
	}

	if summary.Impressions > 0 {
		summary.CTR = float64(summary.Clicks) / float64(summary.Impressions) * 100
	}

	return summary, nil
}

func (c *Client) search(ctx context.Context, query, pageToken string) ([]byte, error) {
	payload := map[string]string{"query": query}
	if pageToken != "" {
		payload["pageToken"] = pageToken
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	target := fmt.Sprintf("%s/%s/customers/%s/googleAds:search", c.baseURL, c.version, c.customerID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build google ads request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, platform.ReadError(platform.GoogleAds, resp, func(body []byte) string {
			return gjson.GetBytes(body, "error.message").String()
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read google ads response: %w", err)
	}

	return body, nil
}

// stripDashes turns "123-456-7890" into "1234567890".
func stripDashes(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
