// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - redis client (optional, backs the response cache)
//   - response cache
//   - platform clients (Meta, GA4, Google Ads)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/platform/ads"
	"github.com/deppfellow/marketing-dashboard/internal/platform/analytics"
	"github.com/deppfellow/marketing-dashboard/internal/platform/meta"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/marketing-dashboard/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Everything in it is built once at
// startup and read-only while requests are served.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Redis is nil unless redis.address is configured.
	Redis *redis.Client

	// Cache holds platform responses for cache.ttl.
	Cache *cache.Cache

	// Platforms holds one client per configured platform. Missing
	// credentials leave the matching field nil.
	Platforms platform.Clients

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
//
// Notes:
//   - A platform without usable credentials is logged and left without a
//     client.
//   - Redis connection failure does not block startup; the cache falls back
//     to process memory.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *Server {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	var store cache.Store

	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		if loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, caching in memory")
			_ = redisClient.Close()
		} else {
			s.Redis = redisClient
			store = cache.NewRedisStore(redisClient)
		}
	}

	if store == nil {
		store = cache.NewMemoryStore(10 * time.Minute)
	}

	s.Cache = cache.New(store, cfg.Cache.TTL, logger)

	s.Platforms = NewPlatformClients(ctx, cfg.Platforms, logger)

	return s
}

// NewPlatformClients builds a client for every platform it can.
//
// A platform without credentials, or whose client fails to build (an
// unreadable credentials file, for example), is logged and left nil so it
// reports connected=false instead of stopping startup.
func NewPlatformClients(ctx context.Context, cfg config.PlatformsConfig, logger *zerolog.Logger) platform.Clients {
	var clients platform.Clients

	if metaClient, err := meta.NewClient(cfg.Meta, logger); err != nil {
		logClientError(logger, platform.Meta, err)
	} else {
		clients.Meta = metaClient
	}

	if analyticsClient, err := analytics.NewClient(ctx, cfg.GoogleAnalytics); err != nil {
		logClientError(logger, platform.GoogleAnalytics, err)
	} else {
		clients.Analytics = analyticsClient
	}

	if adsClient, err := ads.NewClient(ctx, cfg.GoogleAds, logger); err != nil {
		logClientError(logger, platform.GoogleAds, err)
	} else {
		clients.Ads = adsClient
	}

	return clients
}

func logClientError(logger *zerolog.Logger, name platform.Name, err error) {
	if errors.Is(err, platform.ErrNotConnected) {
		logger.Warn().Str("platform", string(name)).Msg("credentials missing, platform disabled")
		return
	}
	logger.Error().Err(err).Str("platform", string(name)).Msg("failed to initialize client, platform disabled")
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	status := s.Platforms.Status()

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Bool("meta", status.Meta.Connected).
		Bool("google_analytics", status.GoogleAnalytics.Connected).
		Bool("google_ads", status.GoogleAds.Connected).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and closes Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis connection: %w", err)
		}
	}

	return nil
}
