package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"agora/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix    = "page:"
	versionKeyPrefix = "pagever:"
)

// DefaultPageTTL bounds how long a page payload may be served without revalidation.
const DefaultPageTTL = 10 * time.Minute

// PageKey is the Redis key holding the cached payload of the page at path.
func PageKey(path string) string {
	return pageKeyPrefix + path
}

// VersionKey is the Redis key counting revalidations of the page at path.
func VersionKey(path string) string {
	return versionKeyPrefix + path
}

// storeIfCurrent writes the payload only while the version key still holds the
// value read before the fetch, so a revalidation during the fetch wins.
var storeIfCurrent = redis.NewScript(`
local current = redis.call("GET", KEYS[1]) or ""
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// PageCache stores rendered page payloads keyed by canonical page path.
// A nil Redis client turns every operation into a no-op.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPageCache returns a page cache on rdb. A non-positive ttl uses DefaultPageTTL.
func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{rdb: rdb, ttl: ttl}
}

// Aside loads the page at path into dest from Redis, or calls fetch to fill dest
// and stores the result. Cache failures never fail the read.
func (p *PageCache) Aside(ctx context.Context, path string, dest any, fetch func() error) error {
	if p == nil || p.rdb == nil {
		return fetch()
	}

	key := PageKey(path)
	raw, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			middleware.PageCacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		middleware.PageCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		middleware.PageCacheLookups.WithLabelValues("miss").Inc()
	default:
		middleware.PageCacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "page cache read failed",
			slog.String("path", path), slog.String("error", err.Error()))
	}

	version, verErr := p.rdb.Get(ctx, VersionKey(path)).Result()
	if errors.Is(verErr, redis.Nil) {
		version, verErr = "", nil
	}

	if err := fetch(); err != nil {
		return err
	}
	if verErr != nil {
		return nil
	}

	b, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	stored, err := storeIfCurrent.Run(ctx, p.rdb,
		[]string{VersionKey(path), key}, version, b, p.ttl.Milliseconds()).Int()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "page cache write failed",
			slog.String("path", path), slog.String("error", err.Error()))
	} else if stored == 0 {
		middleware.PageCacheLookups.WithLabelValues("stale").Inc()
	}
	return nil
}

// Revalidate marks the page at path stale so the next read rebuilds it. Reads
// already fetching the old page will not store it.
func (p *PageCache) Revalidate(ctx context.Context, path string) {
	if p == nil || p.rdb == nil {
		return
	}
	_, err := p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(path))
		pipe.Del(ctx, PageKey(path))
		return nil
	})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "page revalidation failed",
			slog.String("path", path), slog.String("error", err.Error()))
	}
}
