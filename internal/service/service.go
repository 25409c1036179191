// Package service contains the business logic.
//
// It sits between the handler layer and the platform clients. It receives
// validated parameters from the handler, reads through the response cache,
// and calls the platform clients.
package service

import (
	"context"
	"time"

	"github.com/deppfellow/marketing-dashboard/internal/cache"
	"github.com/deppfellow/marketing-dashboard/internal/middleware"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/deppfellow/marketing-dashboard/internal/upstreamerr"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// fetch reads key through the cache, timing the platform call and tagging
// its error with the platform name. Logs go to the request logger so they
// keep request_id and trace ids.
func fetch[T any](
	ctx context.Context,
	s *server.Server,
	name platform.Name,
	operation string,
	key string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	return cache.Fetch(ctx, s.Cache, key, func(ctx context.Context) (T, error) {
		segment := newrelic.FromContext(ctx).StartSegment(string(name) + "/" + operation)
		start := time.Now()

		value, err := load(ctx)

		segment.End()
		elapsed := time.Since(start)

		logger := middleware.LoggerFromContext(ctx, s.Logger).With().
			Str("platform", string(name)).
			Str("operation", operation).
			Dur("duration", elapsed).
			Logger()

		if err != nil {
			logger.Error().Err(err).Msg("platform call failed")
			return value, upstreamerr.Wrap(name, err)
		}

		if threshold := s.Config.Observability.Logging.SlowUpstreamThreshold; threshold > 0 && elapsed > threshold {
			logger.Warn().Dur("threshold", threshold).Msg("slow platform call")
		}

		return value, nil
	})
}
