package availability

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/westbethel/motel-booking/internal/config"
)

// Cache is the Redis-backed store for search results.  Each property
// carries a version counter that every booking mutation increments; the
// counter is folded into the key, so entries written before a mutation
// simply stop being addressable.  TTL bounds the lifetime of entries
// that are never explicitly invalidated.
type Cache struct {
	rdb *redis.Client
	cfg config.AvailabilityCacheConfig
}

// NewCache builds a cache.  Returns nil when caching is disabled or no
// Redis client is available, and callers treat a nil *Cache as
// cache-off.
func NewCache(cfg config.AvailabilityCacheConfig, rdb *redis.Client) *Cache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &Cache{rdb: rdb, cfg: cfg}
}

func (c *Cache) versionKey(propertyID uint64) string {
	return fmt.Sprintf("%s:ver:%d", c.cfg.Prefix, propertyID)
}

// key resolves the property's current cache version and folds it into
// the concrete Redis key for a query.
func (c *Cache) key(ctx context.Context, q Query) string {
	version, err := c.rdb.Get(ctx, c.versionKey(q.PropertyID)).Int64()
	if err != nil {
		version = 0
	}
	return versionedKey(c.cfg.Prefix, version, q)
}

// versionedKey builds the Redis key for one query at one property cache
// version: prefix, property id, version, sha1 of the query parameters.
func versionedKey(prefix string, version int64, q Query) string {
	tail := strings.Join([]string{
		q.Start.Format(dateLayout),
		q.End.Format(dateLayout),
		fmt.Sprintf("a%d", q.Adults),
		fmt.Sprintf("c%d", q.Children),
		strings.Join(q.RoomTypeCodes, ","),
	}, "|")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%d:v%d:%x", prefix, q.PropertyID, version, sum[:])
}

// Get returns the cached result for a query plus the concrete key it
// was looked up under.  Redis errors are treated as misses.
func (c *Cache) Get(ctx context.Context, q Query) (*Result, string, bool) {
	key := c.key(ctx, q)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, key, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, key, false
	}
	return &result, key, true
}

// Set stores a result under a key obtained from Get at miss time.
// Reusing the miss-time key pins the entry to the version the result
// was computed at; a booking committed mid-search bumps the counter and
// the write lands under an already-orphaned key.  Failures are ignored;
// the cache is an optimization, never a source of truth.
func (c *Cache) Set(ctx context.Context, key string, result *Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.cfg.TTL)
}

// Invalidate bumps the property's version counter, orphaning every
// cached search for it in one O(1) write.
func (c *Cache) Invalidate(ctx context.Context, propertyID uint64) {
	if c == nil {
		return
	}
	c.rdb.Incr(ctx, c.versionKey(propertyID))
}
