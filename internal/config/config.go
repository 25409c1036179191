// Package config manages environment variables.
//
// It reads variable from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused accross the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into
	// process env before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig.
const EnvPrefix = "DASHBOARD_"

/*
	Env vars are read using the DASHBOARD_ prefix. A double underscore marks
	nesting, a single underscore stays part of the key:

	  DASHBOARD_SERVER__PORT                     -> server.port
	  DASHBOARD_PLATFORMS__META__ACCESS_TOKEN    -> platforms.meta.access_token
*/

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Cache         CacheConfig          `koanf:"cache"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Platforms     PlatformsConfig      `koanf:"platforms"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// RedisConfig contains Redis connection details.
// An empty Address means the response cache stays in process memory.
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

// CacheConfig controls the platform response cache.
// A zero TTL disables caching.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"min=0"`
}

// RateLimitConfig controls the per-IP rate limiter on /api routes.
// A zero RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`
}

// PlatformsConfig holds credentials for the three external platforms.
//
// None of them is required: a platform without credentials has no client,
// reports connected=false on /api/status, and its data endpoints answer 500.
type PlatformsConfig struct {
	Meta            MetaConfig            `koanf:"meta"`
	GoogleAnalytics GoogleAnalyticsConfig `koanf:"google_analytics"`
	GoogleAds       GoogleAdsConfig       `koanf:"google_ads"`
}

// MetaConfig configures the Meta (Facebook) Marketing API client.
type MetaConfig struct {
	AccessToken string `koanf:"access_token"`
	AdAccountID string `koanf:"ad_account_id"`
	APIVersion  string `koanf:"api_version"`
	BaseURL     string `koanf:"base_url" validate:"omitempty,url"`
}

// Configured reports whether enough credentials exist to build a client.
func (c MetaConfig) Configured() bool {
	return c.AccessToken != "" && c.AdAccountID != ""
}

// GoogleAnalyticsConfig configures the GA4 Data API client.
//
// CredentialsFile points at a service account JSON key. When empty,
// Application Default Credentials are used.
type GoogleAnalyticsConfig struct {
	PropertyID      string `koanf:"property_id"`
	CredentialsFile string `koanf:"credentials_file"`
	Endpoint        string `koanf:"endpoint" validate:"omitempty,url"`
}

// Configured reports whether enough credentials exist to build a client.
func (c GoogleAnalyticsConfig) Configured() bool {
	return c.PropertyID != ""
}

// GoogleAdsConfig configures the Google Ads REST client.
type GoogleAdsConfig struct {
	DeveloperToken  string `koanf:"developer_token"`
	ClientID        string `koanf:"client_id"`
	ClientSecret    string `koanf:"client_secret"`
	RefreshToken    string `koanf:"refresh_token"`
	CustomerID      string `koanf:"customer_id"`
	LoginCustomerID string `koanf:"login_customer_id"`
	APIVersion      string `koanf:"api_version"`
	BaseURL         string `koanf:"base_url" validate:"omitempty,url"`
}

// Configured reports whether enough credentials exist to build a client.
func (c GoogleAdsConfig) Configured() bool {
	return c.DeveloperToken != "" &&
		c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.RefreshToken != "" &&
		c.CustomerID != ""
}

// envKey turns DASHBOARD_SERVER__PORT into server.port.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// applyDefaults fills optional values that have a sensible default.
func applyDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		"primary.env":                      "development",
		"server.port":                      "8080",
		"server.read_timeout":              30,
		"server.write_timeout":             30,
		"server.idle_timeout":              60,
		"cache.ttl":                        "5m",
		"rate_limit.requests_per_second":   20.0,
		"rate_limit.burst":                 40,
		"platforms.meta.api_version":       "v19.0",
		"platforms.meta.base_url":          "https://graph.facebook.com",
		"platforms.google_ads.api_version": "v17",
		"platforms.google_ads.base_url":    "https://googleads.googleapis.com",
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			_ = k.Set(key, value)
		}
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config structs, validates it, applies defaults, and returns it.
//
// Behavior summary:
//   - Loads env vars with prefix DASHBOARD_
//   - Fills defaults for keys not provided
//   - Unmarshals into Config and validates it
//   - Sets default observability if missing
//   - Overrides observability service name + environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	applyDefaults(k)

	// CORS origins arrive as one comma-separated env var.
	if raw := k.String("server.cors_allowed_origins"); raw != "" {
		_ = k.Set("server.cors_allowed_origins", splitList(raw))
	} else if !k.Exists("server.cors_allowed_origins") {
		_ = k.Set("server.cors_allowed_origins", []string{"*"})
	}

	// Observability defaults are preloaded so partial env overrides merge
	// into them instead of zeroing the rest of the block.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Force service name and environment so logs/traces are consistent.
	mainConfig.Observability.ServiceName = "marketing-dashboard"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
