package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_PRIMARY__ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "v19.0", cfg.Platforms.Meta.APIVersion)
	assert.False(t, cfg.Platforms.Meta.Configured())
	assert.False(t, cfg.Platforms.GoogleAnalytics.Configured())
	assert.False(t, cfg.Platforms.GoogleAds.Configured())

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "marketing-dashboard", cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
}

func TestLoadConfigNestedKeys(t *testing.T) {
	t.Setenv("DASHBOARD_SERVER__PORT", "9090")
	t.Setenv("DASHBOARD_SERVER__CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DASHBOARD_CACHE__TTL", "30s")
	t.Setenv("DASHBOARD_PLATFORMS__META__ACCESS_TOKEN", "token")
	t.Setenv("DASHBOARD_PLATFORMS__META__AD_ACCOUNT_ID", "123")
	t.Setenv("DASHBOARD_PLATFORMS__GOOGLE_ANALYTICS__PROPERTY_ID", "987")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Platforms.Meta.Configured())
	assert.Equal(t, "123", cfg.Platforms.Meta.AdAccountID)
	assert.True(t, cfg.Platforms.GoogleAnalytics.Configured())
	assert.False(t, cfg.Platforms.GoogleAds.Configured())
}

func TestLoadConfigRejectsBadRedisAddress(t *testing.T) {
	t.Setenv("DASHBOARD_REDIS__ADDRESS", "not an address")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Logging.Level = ""
	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigPartialObservabilityOverride(t *testing.T) {
	t.Setenv("DASHBOARD_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	defaults := DefaultObservabilityConfig()
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, defaults.Logging.Format, cfg.Observability.Logging.Format)
	assert.Equal(t, defaults.HealthChecks, cfg.Observability.HealthChecks)
}
