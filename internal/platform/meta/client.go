// Package meta provides a Meta (Facebook) Marketing API client.
//
// It talks to the Graph API over HTTPS and reads the campaigns and
// insights edges of one ad account.
package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DatePresets are the values the Graph API accepts for date_preset.
var DatePresets = []string{
	"today",
	"yesterday",
	"this_month",
	"last_month",
	"this_quarter",
	"maximum",
	"last_3d",
	"last_7d",
	"last_14d",
	"last_28d",
	"last_30d",
	"last_90d",
	"last_week_mon_sun",
	"last_week_sun_sat",
	"last_quarter",
	"last_year",
	"this_week_mon_today",
	"this_week_sun_today",
	"this_year",
}

// DefaultDatePreset is used when a request does not name one.
const DefaultDatePreset = "last_30d"

// Levels are the aggregation levels of the insights edge.
var Levels = []string{"ad", "adset", "campaign"}

// DefaultLevel is used when a request does not name one.
const DefaultLevel = "campaign"

const (
	// maxPages caps how many paging.next links are followed per call.
	maxPages = 10

	pageSize = 100

	// maxBody caps a single Graph API page.
	maxBody = 16 << 20

	requestTimeout = 30 * time.Second
)

var insightFields = []string{
	"campaign_id", "campaign_name",
	"adset_id", "adset_name",
	"ad_id", "ad_name",
	"spend", "impressions", "clicks", "ctr", "cpc",
	"date_start", "date_stop",
}

// Client reads one ad account from the Graph API.
type Client struct {
	http        *retryablehttp.Client
	baseURL     string
	version     string
	accountID   string
	accessToken string
}

// NewClient creates a Client from config.
//
// It returns platform.ErrNotConnected when credentials are missing.
func NewClient(cfg config.MetaConfig, logger *zerolog.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, platform.NotConnectedError(platform.Meta)
	}

	accountID := cfg.AdAccountID
	if !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}

	return &Client{
		http:        platform.NewRetryableClient(platform.Meta, logger, requestTimeout),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		version:     cfg.APIVersion,
		accountID:   accountID,
		accessToken: cfg.AccessToken,
	}, nil
}

// IsConnected reports whether the client holds credentials.
func (c *Client) IsConnected() bool {
	return c != nil && c.accessToken != ""
}

// Campaigns lists the account's campaigns with spend, impressions and
// clicks for datePreset.
func (c *Client) Campaigns(ctx context.Context, datePreset string) ([]platform.Campaign, error) {
	params := url.Values{}
	params.Set("fields", fmt.Sprintf(
		"id,name,status,objective,insights.date_preset(%s){spend,impressions,clicks}",
		datePreset,
	))
	params.Set("limit", fmt.Sprint(pageSize))

	var campaigns []platform.Campaign

	err := c.paginate(ctx, c.edgeURL("campaigns", params), func(row gjson.Result) {
		insight := row.Get("insights.data.0")
		campaigns = append(campaigns, platform.Campaign{
			ID:          row.Get("id").String(),
			Name:        row.Get("name").String(),
			Status:      row.Get("status").String(),
			Objective:   row.Get("objective").String(),
			Spend:       insight.Get("spend").Float(),
			Impressions: insight.Get("impressions").Int(),
			Clicks:      insight.Get("clicks").Int(),
		})
	})
	if err != nil {
		return nil, err
	}

	if campaigns == nil {
		campaigns = []platform.Campaign{}
	}

	return campaigns, nil
}

// Insights reads the insights edge at q.Level.
func (c *Client) Insights(ctx context.Context, q platform.InsightsQuery) ([]platform.Insight, error) {
	params := url.Values{}
	params.Set("level", q.Level)
	params.Set("fields", strings.Join(insightFields, ","))
	params.Set("limit", fmt.Sprint(pageSize))

	if q.Range != nil {
		timeRange, err := json.Marshal(map[string]string{
			"since": q.Range.Since.Format(time.DateOnly),
			"until": q.Range.Until.Format(time.DateOnly),
		})
		if err != nil {
			return nil, err
		}
		params.Set("time_range", string(timeRange))
	} else {
		params.Set("date_preset", q.DatePreset)
	}

	var insights []platform.Insight

	err := c.paginate(ctx, c.edgeURL("insights", params), func(row gjson.Result) {
		insights = append(insights, platform.Insight{
			CampaignID:   row.Get("campaign_id").String(),
			CampaignName: row.Get("campaign_name").String(),
			AdsetID:      row.Get("adset_id").String(),
			AdsetName:    row.Get("adset_name").String(),
			AdID:         row.Get("ad_id").String(),
			AdName:       row.Get("ad_name").String(),
			Spend:        row.Get("spend").Float(),
			Impressions:  row.Get("impressions").Int(),
			Clicks:       row.Get("clicks").Int(),
			CTR:          row.Get("ctr").Float(),
			CPC:          row.Get("cpc").Float(),
			DateStart:    row.Get("date_start").String(),
			DateStop:     row.Get("date_stop").String(),
		})
	})
	if err != nil {
		return nil, err
	}

	if insights == nil {
		insights = []platform.Insight{}
	}

	return insights, nil
}

// edgeURL never carries the access token. It travels in the Authorization
// header so request URLs stay safe to log.
func (c *Client) edgeURL(edge string, params url.Values) string {
	return fmt.Sprintf("%s/%s/%s/%s?%s", c.baseURL, c.version, c.accountID, edge, params.Encode())
}

// paginate calls visit for every element of "data", following
// paging.next up to maxPages pages.
func (c *Client) paginate(ctx context.Context, next string, visit func(row gjson.Result)) error {
	for page := 0; next != "" && page < maxPages; page++ {
		body, err := c.get(ctx, next)
		if err != nil {
			return err
		}

		parsed := gjson.ParseBytes(body)
		parsed.Get("data").ForEach(func(_, row gjson.Result) bool {
			visit(row)
			return true
		})

		next, err = withoutToken(parsed.Get("paging.next").String())
		if err != nil {
			return err
		}
	}

	return nil
}

// withoutToken drops the access_token the Graph API echoes into paging links.
func withoutToken(link string) (string, error) {
	if link == "" {
		return "", nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", errors.New("meta returned an invalid paging link")
	}

	q := u.Query()
	q.Del("access_token")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build meta request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "OAuth "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meta request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, platform.ReadError(platform.Meta, resp, func(body []byte) string {
			return gjson.GetBytes(body, "error.message").String()
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read meta response: %w", err)
	}

	return body, nil
}
