// page.go provides a Valkey-backed full-page HTML cache for public
// profile pages. A rendered profile is stored under its username so
// repeat visitors skip the DB lookup and template execution. Saving the
// dashboard invalidates the owner's entry; view counters are bumped
// separately so cache hits still count.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached profile pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered profile stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey, keyed by username.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves the cached HTML for a username. Cache errors degrade to
// a miss; the page just gets re-rendered.
func (pc *PageCache) Get(ctx context.Context, username string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+username).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "username", username, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "username", username)
	return val, true
}

// Set stores rendered HTML for a username with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, username string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+username, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "username", username, "error", err)
	}
}

// Invalidate removes one username's cached page, called after every
// dashboard save so the public page reflects the new state immediately.
func (pc *PageCache) Invalidate(ctx context.Context, username string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+username).Err(); err != nil {
		slog.Warn("page cache invalidate error", "username", username, "error", err)
	}
	slog.Debug("page cache invalidated", "username", username)
}
