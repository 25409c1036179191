// Package cache keeps platform responses for a short time.
//
// Dashboard pages poll the same reports repeatedly and the platform APIs are
// slow and rate limited. Responses are stored as JSON in a Store, which is
// Redis when an address is configured and process memory otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared load once it no longer follows any caller's
// cancellation.
const loadTimeout = time.Minute

// ErrMiss is returned by Store.Get when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store holds raw values with an expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache reads through a Store and collapses concurrent identical misses.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *zerolog.Logger
	group  singleflight.Group
}

// New creates a Cache. A zero ttl or nil store disables caching.
func New(store Store, ttl time.Duration, logger *zerolog.Logger) *Cache {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Enabled reports whether values are stored at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.store != nil && c.ttl > 0
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return "dashboard:" + strings.Join(parts, ":")
}

// Fetch returns the cached value for key or calls load and stores its result.
//
// Errors from load are returned as is and never cached. A failing store
// degrades into calling load directly.
//
// Concurrent misses for key share one load. That load keeps the first
// caller's context values but not its cancellation, so one client hanging
// up does not fail the others. A cancelled caller stops waiting and gets
// its own ctx.Err().
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	var value T

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &value); jsonErr == nil {
			return value, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")

	case !errors.Is(err, ErrMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		loaded, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		if encoded, err := json.Marshal(loaded); err == nil {
			if err := c.store.Set(loadCtx, key, encoded, c.ttl); err != nil {
				c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}

		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return value, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return value, res.Err
		}
		return res.Val.(T), nil
	}
}
