package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"wissensbank/backend/internal/model"
)

// hitScript is the fixed-window transition; Redis runs scripts atomically.
// KEYS[1] counter hash, ARGV[1] now ms, ARGV[2] window ms, ARGV[3] retention ms.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local vals = redis.call('HMGET', KEYS[1], 'count', 'reset_at')
local count = tonumber(vals[1])
local reset = tonumber(vals[2])
if (not count) or (not reset) or reset <= now then
  count = 1
  reset = now + window
else
  count = count + 1
end
redis.call('HSET', KEYS[1], 'count', count, 'reset_at', reset, 'updated_at', now)
redis.call('PEXPIREAT', KEYS[1], reset + tonumber(ARGV[3]))
return {count, reset}
`)

type redisRateLimitRepository struct {
	rdb       redis.UniversalClient
	prefix    string
	retention time.Duration
}

type RedisRateLimitOption func(*redisRateLimitRepository)

// WithRedisPrefix sets the key prefix (default "ratelimit:bucket").
func WithRedisPrefix(prefix string) RedisRateLimitOption {
	return func(r *redisRateLimitRepository) { r.prefix = strings.Trim(prefix, ":") }
}

// WithRedisRetention keeps counters this long after their window ends.
func WithRedisRetention(d time.Duration) RedisRateLimitOption {
	return func(r *redisRateLimitRepository) { r.retention = d }
}

// NewRedisRateLimitRepository creates a counter store on Redis for deployments
// that run several instances against a shared cache.
func NewRedisRateLimitRepository(rdb redis.UniversalClient, opts ...RedisRateLimitOption) RateLimitRepository {
	r := &redisRateLimitRepository{
		rdb:       rdb,
		prefix:    "ratelimit:bucket",
		retention: time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *redisRateLimitRepository) key(bucket string) string {
	return r.prefix + ":" + bucket
}

func (r *redisRateLimitRepository) Hit(ctx context.Context, bucket string, now time.Time, window time.Duration) (model.RateLimitCounter, error) {
	res, err := hitScript.Run(ctx, r.rdb, []string{r.key(bucket)},
		toMillis(now), window.Milliseconds(), r.retention.Milliseconds()).Int64Slice()
	if err != nil {
		return model.RateLimitCounter{}, fmt.Errorf("redis rate limit hit: %w", err)
	}
	if len(res) != 2 {
		return model.RateLimitCounter{}, fmt.Errorf("redis rate limit hit: unexpected reply length %d", len(res))
	}
	return model.RateLimitCounter{
		Bucket:    bucket,
		Count:     int(res[0]),
		ResetAt:   fromMillis(res[1]),
		UpdatedAt: fromMillis(toMillis(now)),
	}, nil
}

func (r *redisRateLimitRepository) Get(ctx context.Context, bucket string) (*model.RateLimitCounter, error) {
	vals, err := r.rdb.HMGet(ctx, r.key(bucket), "count", "reset_at", "updated_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(vals) != 3 || vals[0] == nil || vals[1] == nil {
		return nil, nil
	}

	count, err := strconv.Atoi(fmt.Sprint(vals[0]))
	if err != nil {
		return nil, fmt.Errorf("parse count: %w", err)
	}
	resetAt, err := strconv.ParseInt(fmt.Sprint(vals[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse reset_at: %w", err)
	}
	c := &model.RateLimitCounter{Bucket: bucket, Count: count, ResetAt: fromMillis(resetAt)}
	if vals[2] != nil {
		if updatedAt, err := strconv.ParseInt(fmt.Sprint(vals[2]), 10, 64); err == nil {
			c.UpdatedAt = fromMillis(updatedAt)
		}
	}
	return c, nil
}

// DeleteExpired is a no-op: keys expire on their own via PEXPIREAT.
func (r *redisRateLimitRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
