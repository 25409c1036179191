package ads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(baseURL string) config.GoogleAdsConfig {
	return config.GoogleAdsConfig{
		DeveloperToken:  "dev-token",
		ClientID:        "client",
		ClientSecret:    "secret",
		RefreshToken:    "refresh",
		CustomerID:      "123-456-7890",
		LoginCustomerID: "111-222-3333",
		APIVersion:      "v17",
		BaseURL:         baseURL,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	clock := func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	client, err := NewClient(context.Background(), testConfig(srv.URL), nil,
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"})),
		WithClock(clock),
	)
	require.NoError(t, err)

	client.http.RetryWaitMin = time.Millisecond
	client.http.RetryWaitMax = time.Millisecond

	return client
}

func TestNewClientWithoutCredentials(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.RefreshToken = ""

	_, err := NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, platform.ErrNotConnected)
}

func TestSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v17/customers/1234567890/googleAds:search", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Equal(t, "1112223333", r.Header.Get("login-customer-id"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["query"], "BETWEEN '2026-03-04' AND '2026-03-10'")

		fmt.Fprint(w, `{"results":[
			{"campaign":{"id":"1","name":"Search","status":"ENABLED"},
			 "metrics":{"costMicros":"2500000","impressions":"1000","clicks":"50","conversions":2.5}},
			{"campaign":{"id":"2","name":"Display","status":"PAUSED"},
			 "metrics":{"costMicros":"500000","impressions":"1000","clicks":"10"}}
		]}`)
	})

	summary, err := client.Summary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Days)
	assert.Equal(t, "2026-03-04", summary.Since)
	assert.Equal(t, "2026-03-10", summary.Until)
	assert.InDelta(t, 3.0, summary.Cost, 1e-9)
	assert.Equal(t, int64(2000), summary.Impressions)
	assert.Equal(t, int64(60), summary.Clicks)
	assert.InDelta(t, 2.5, summary.Conversions, 1e-9)
	assert.InDelta(t, 3.0, summary.CTR, 1e-9)
	require.Len(t, summary.Campaigns, 2)
	assert.Equal(t, "Search", summary.Campaigns[0].Name)
}

func TestSummaryFollowsPageToken(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["pageToken"] == "" {
			fmt.Fprint(w, `{"results":[{"campaign":{"id":"1"},"metrics":{"clicks":"1","impressions":"10"}}],"nextPageToken":"p2"}`)
			return
		}
		assert.Equal(t, "p2", body["pageToken"])
		fmt.Fprint(w, `{"results":[{"campaign":{"id":"2"},"metrics":{"clicks":"1","impressions":"10"}}]}`)
	})

	summary, err := client.Summary(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, summary.Campaigns, 2)
	assert.Equal(t, 2, calls)
}

func TestSummaryAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
	})

	_, err := client.Summary(context.Background(), 30)

	var apiErr *platform.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, platform.GoogleAds, apiErr.Platform)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "The caller does not have permission", apiErr.Message)
}
