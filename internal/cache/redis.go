package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"bank_transactions/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

const (
	backendRedis = "redis"

	// hash tag keeps every key in one cluster slot so the scripts stay valid
	defaultRedisPrefix = "{tx_page}:"
)

// store only when the caller's generation is still current
var putScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
redis.call('SADD', KEYS[3], KEYS[2])
return 1
`)

var clearScript = redis.NewScript(`
local keys = redis.call('SMEMBERS', KEYS[2])
for _, k in ipairs(keys) do
	redis.call('DEL', k)
end
redis.call('DEL', KEYS[2])
return redis.call('INCR', KEYS[1])
`)

// RedisPageCache shares cached pages and their invalidation between replicas.
type RedisPageCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisPageCache(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *RedisPageCache {
	return &RedisPageCache{
		client: client,
		prefix: defaultRedisPrefix,
		ttl:    ttl,
		log:    log,
	}
}

// WithPrefix namespaces the keys, mostly so tests do not collide
func (c *RedisPageCache) WithPrefix(prefix string) *RedisPageCache {
	c.prefix = "{" + prefix + "}:"
	return c
}

func (c *RedisPageCache) genKey() string  { return c.prefix + "gen" }
func (c *RedisPageCache) keysKey() string { return c.prefix + "keys" }
func (c *RedisPageCache) pageKey(key Key) string {
	return c.prefix + "page:" + key.String()
}

func (c *RedisPageCache) Get(ctx context.Context, key Key) (domain.Page, bool) {
	raw, err := c.client.Get(ctx, c.pageKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("page cache read failed", "key", key.String(), "error", err)
		}
		PageMisses.WithLabelValues(backendRedis).Inc()
		return domain.Page{}, false
	}

	var page domain.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		c.log.Warn("page cache entry corrupt", "key", key.String(), "error", err)
		PageMisses.WithLabelValues(backendRedis).Inc()
		return domain.Page{}, false
	}

	PageHits.WithLabelValues(backendRedis).Inc()
	return page, true
}

func (c *RedisPageCache) Put(ctx context.Context, key Key, page domain.Page, generation uint64) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.log.Warn("page cache encode failed", "key", key.String(), "error", err)
		return
	}

	stored, err := putScript.Run(ctx, c.client,
		[]string{c.genKey(), c.pageKey(key), c.keysKey()},
		strconv.FormatUint(generation, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.log.Warn("page cache write failed", "key", key.String(), "error", err)
		PageStores.WithLabelValues(backendRedis, "error").Inc()
		return
	}

	if stored == 0 {
		PageStores.WithLabelValues(backendRedis, "stale").Inc()
		return
	}
	PageStores.WithLabelValues(backendRedis, "stored").Inc()
}

func (c *RedisPageCache) Clear(ctx context.Context) error {
	if err := clearScript.Run(ctx, c.client, []string{c.genKey(), c.keysKey()}).Err(); err != nil {
		return err
	}
	Invalidations.WithLabelValues(backendRedis).Inc()
	return nil
}

// Generation returns 0 when Redis cannot be read; the resulting Put is then dropped
// as stale unless the cache has never been cleared.
func (c *RedisPageCache) Generation(ctx context.Context) uint64 {
	gen, err := c.client.Get(ctx, c.genKey()).Uint64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("page cache generation read failed", "error", err)
		}
		return 0
	}
	return gen
}
