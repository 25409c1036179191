package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/errs"
	"github.com/deppfellow/marketing-dashboard/internal/handler"
	"github.com/deppfellow/marketing-dashboard/internal/logger"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/platform/platformtest"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Cache:         config.CacheConfig{TTL: time.Minute},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, clients platform.Clients) *echo.Echo {
	t.Helper()

	nop := zerolog.Nop()
	s := &server.Server{
		Config:        cfg,
		Logger:        &nop,
		LoggerService: &logger.LoggerService{},
		Cache:         cache.New(cache.NewMemoryStore(time.Minute), cfg.Cache.TTL, &nop),
		Platforms:     clients,
	}

	return NewRouter(s, handler.NewHandlers(s, service.NewServices(s)))
}

func get(t *testing.T, r *echo.Echo, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return rec, body
}

// requireValidationError checks the 400 envelope and returns its details.
func requireValidationError(t *testing.T, rec *httptest.ResponseRecorder, body map[string]interface{}) []map[string]interface{} {
	t.Helper()

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, errs.ValidationErrorMessage, body["error"])
	assert.Equal(t, errs.ValidationErrorCode, body["code"])

	raw, ok := body["details"].([]interface{})
	require.True(t, ok, "details must be an array")
	require.NotEmpty(t, raw)

	details := make([]map[string]interface{}, 0, len(raw))
	for _, d := range raw {
		details = append(details, d.(map[string]interface{}))
	}
	return details
}

func hasDetail(details []map[string]interface{}, field, typ string) bool {
	for _, d := range details {
		if d["field"] == field && d["type"] == typ {
			return true
		}
	}
	return false
}

func TestStatus(t *testing.T) {
	clients, _, _, _ := platformtest.Connected()
	clients.Ads = nil

	rec, body := get(t, newTestRouter(t, testConfig(), clients), "/api/status")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body, 3)
	assert.Equal(t, map[string]interface{}{"connected": true}, body["meta"])
	assert.Equal(t, map[string]interface{}{"connected": true}, body["google_analytics"])
	assert.Equal(t, map[string]interface{}{"connected": false}, body["google_ads"])
}

func TestStatusWithoutAnyClient(t *testing.T) {
	rec, body := get(t, newTestRouter(t, testConfig(), platform.Clients{}), "/api/status?days=abc")

	require.Equal(t, http.StatusOK, rec.Code)
	for _, key := range []string{"meta", "google_analytics", "google_ads"} {
		assert.Equal(t, map[string]interface{}{"connected": false}, body[key], key)
	}
}

func TestMetaCampaigns(t *testing.T) {
	clients, meta, _, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	rec, body := get(t, r, "/api/meta/campaigns")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "last_30d", body["date_preset"])
	assert.Len(t, body["campaigns"], 2)
	assert.Equal(t, "last_30d", meta.LastPreset())

	rec, _ = get(t, r, "/api/meta/campaigns?date_preset=last_7d")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "last_7d", meta.LastPreset())

	rec, body = get(t, r, "/api/meta/campaigns?date_preset=last_century")
	details := requireValidationError(t, rec, body)
	assert.True(t, hasDetail(details, "date_preset", "literal_error"))
}

func TestMetaInsights(t *testing.T) {
	clients, meta, _, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	rec, body := get(t, r, "/api/meta/insights?date_preset=last_14d&level=ad")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ad", body["level"])
	assert.Equal(t, platform.InsightsQuery{DatePreset: "last_14d", Level: "ad"}, meta.LastInsights())

	calls := meta.Calls()
	rec, body = get(t, r, "/api/meta/insights?level=account")
	details := requireValidationError(t, rec, body)
	assert.True(t, hasDetail(details, "level", "literal_error"))
	assert.Equal(t, calls, meta.Calls(), "invalid requests never reach the platform")
}

func TestTrafficSourcesValidation(t *testing.T) {
	tests := []struct {
		query    string
		wantType string
	}{
		{query: "limit=0", wantType: "greater_than_equal"},
		{query: "limit=101", wantType: "less_than_equal"},
		{query: "limit=abc", wantType: "int_parsing"},
		{query: "limit=-1", wantType: "greater_than_equal"},
		{query: "limit=", wantType: "int_parsing"},
	}

	clients, _, analytics, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, body := get(t, r, "/api/ga/traffic_sources?"+tt.query)
			details := requireValidationError(t, rec, body)
			assert.True(t, hasDetail(details, "limit", tt.wantType), details)
		})
	}

	assert.Zero(t, analytics.Calls())
}

func TestTrafficSources(t *testing.T) {
	clients, _, analytics, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	rec, body := get(t, r, "/api/ga/traffic_sources?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["sources"], 1)

	days, limit := analytics.LastArgs()
	assert.Equal(t, 30, days)
	assert.Equal(t, 1, limit)

	for _, query := range []string{"limit=5", "limit=100", ""} {
		rec, _ := get(t, r, "/api/ga/traffic_sources?"+query)
		assert.Equal(t, http.StatusOK, rec.Code, query)
	}
}

func TestValidationReportsEveryViolation(t *testing.T) {
	clients, _, _, _ := platformtest.Connected()

	rec, body := get(t, newTestRouter(t, testConfig(), clients), "/api/ga/traffic_sources?limit=abc&days=0")
	details := requireValidationError(t, rec, body)

	require.Len(t, details, 2)
	assert.True(t, hasDetail(details, "limit", "int_parsing"))
	assert.True(t, hasDetail(details, "days", "greater_than_equal"))
	assert.Equal(t, "abc", details[0]["input"])
}

func TestAdsSummary(t *testing.T) {
	clients, _, _, ads := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	rec, body := get(t, r, "/api/ads/summary?days=15")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 15, body["days"])
	assert.Equal(t, 15, ads.LastDays())

	for _, query := range []string{"days=0", "days=400", "days=366", "days=many"} {
		rec, body := get(t, r, "/api/ads/summary?"+query)
		requireValidationError(t, rec, body)
	}

	rec, _ = get(t, r, "/api/ads/summary?days=365")
	assert.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		query    string
		wantType string
	}{
		{query: "days=0", wantType: "greater_than_equal"},
		{query: "days=400", wantType: "less_than_equal"},
		{query: "days=many", wantType: "int_parsing"},
		{query: "days=", wantType: "int_parsing"},
	}
	for _, tt := range tests {
		rec, body := get(t, r, "/api/ads/summary?"+tt.query)
		details := requireValidationError(t, rec, body)
		assert.True(t, hasDetail(details, "days", tt.wantType), tt.query)
	}
}

func TestDashboardOverview(t *testing.T) {
	clients, _, _, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	rec, body := get(t, r, "/api/dashboard/overview?days=60")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 60, body["days"])

	totals := body["totals"].(map[string]interface{})
	assert.InDelta(t, 200.5, totals["spend"], 1e-9)
	assert.EqualValues(t, 15000, totals["impressions"])

	tests := []struct {
		query    string
		wantType string
	}{
		{query: "days=0", wantType: "greater_than_equal"},
		{query: "days=366", wantType: "less_than_equal"},
		{query: "days=abc", wantType: "int_parsing"},
		{query: "days=%20", wantType: "int_parsing"},
	}
	for _, tt := range tests {
		rec, body := get(t, r, "/api/dashboard/overview?"+tt.query)
		details := requireValidationError(t, rec, body)
		assert.True(t, hasDetail(details, "days", tt.wantType), tt.query)
	}

	rec, _ = get(t, r, "/api/dashboard/overview?days=365")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmptyParametersAreRejected(t *testing.T) {
	clients, meta, analytics, _ := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	for _, query := range []string{"limit=", "limit=%20%20", "days=&limit="} {
		rec, body := get(t, r, "/api/ga/traffic_sources?"+query)
		details := requireValidationError(t, rec, body)
		assert.True(t, hasDetail(details, "limit", "int_parsing"), query)
	}

	rec, body := get(t, r, "/api/meta/insights?level=")
	details := requireValidationError(t, rec, body)
	assert.True(t, hasDetail(details, "level", "literal_error"))

	assert.Zero(t, analytics.Calls())
	assert.Zero(t, meta.Calls())
}

func TestMissingClientIsServerError(t *testing.T) {
	r := newTestRouter(t, testConfig(), platform.Clients{})

	cases := map[string]string{
		"/api/meta/campaigns":             "META_NOT_CONNECTED",
		"/api/meta/insights":              "META_NOT_CONNECTED",
		"/api/ga/traffic_sources?limit=5": "GOOGLE_ANALYTICS_NOT_CONNECTED",
		"/api/ads/summary?days=15":        "GOOGLE_ADS_NOT_CONNECTED",
		"/api/dashboard/overview?days=60": "",
	}

	for target, wantCode := range cases {
		rec, body := get(t, r, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.NotContains(t, body, "details", target)
		if wantCode != "" {
			assert.Equal(t, wantCode, body["code"], target)
		}
	}
}

func TestPlatformAPIErrorIsServerError(t *testing.T) {
	clients, meta, _, _ := platformtest.Connected()
	meta.Err = &platform.APIError{Platform: platform.Meta, StatusCode: http.StatusBadRequest, Message: "Invalid parameter"}

	rec, body := get(t, newTestRouter(t, testConfig(), clients), "/api/meta/campaigns")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "META_API_ERROR", body["code"])
	assert.Equal(t, "Meta API error: Invalid parameter", body["error"])
}

func TestResponsesAreCached(t *testing.T) {
	clients, _, _, ads := platformtest.Connected()
	r := newTestRouter(t, testConfig(), clients)

	get(t, r, "/api/ads/summary?days=7")
	get(t, r, "/api/ads/summary?days=7")
	assert.Equal(t, 1, ads.Calls())

	get(t, r, "/api/ads/summary?days=8")
	assert.Equal(t, 2, ads.Calls())
}

func TestUnknownRoute(t *testing.T) {
	rec, body := get(t, newTestRouter(t, testConfig(), platform.Clients{}), "/api/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t, testConfig(), platform.Clients{})

	rec, _ := get(t, r, "/api/status")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	clients, _, _, _ := platformtest.Connected()
	r := newTestRouter(t, cfg, clients)

	rec, _ := get(t, r, "/api/ads/summary")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := get(t, r, "/api/ads/summary")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])

	for range 3 {
		rec, body = get(t, r, "/api/status")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body, 3)
	}
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newTestRouter(t, testConfig(), platform.Clients{}), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
}
