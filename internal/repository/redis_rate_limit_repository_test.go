package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"wissensbank/backend/internal/repository"
)

// newTestRedis starts an in-process Redis whose clock is pinned to now.
func newTestRedis(t *testing.T, now time.Time) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	mr.SetTime(now)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisRateLimitRepository_WindowCounts(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	_, rdb := newTestRedis(t, start)
	repo := repository.NewRedisRateLimitRepository(rdb, repository.WithRedisPrefix("test"))
	ctx := context.Background()
	window := time.Hour

	first, err := repo.Hit(ctx, "bucket-a", start, window)
	require.NoError(t, err)
	require.Equal(t, 1, first.Count)
	require.True(t, first.ResetAt.Equal(start.Add(window)))

	for i := 2; i <= 5; i++ {
		c, err := repo.Hit(ctx, "bucket-a", start.Add(time.Duration(i)*time.Minute), window)
		require.NoError(t, err)
		require.Equal(t, i, c.Count)
		require.True(t, c.ResetAt.Equal(first.ResetAt), "reset_at must not move inside the window")
	}

	stored, err := repo.Get(ctx, "bucket-a")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, 5, stored.Count)
	require.True(t, stored.ResetAt.Equal(first.ResetAt))

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRedisRateLimitRepository_Rollover(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	_, rdb := newTestRedis(t, start)
	repo := repository.NewRedisRateLimitRepository(rdb, repository.WithRedisRetention(time.Hour))
	ctx := context.Background()
	window := 10 * time.Minute

	for i := 0; i < 20; i++ {
		_, err := repo.Hit(ctx, "bucket-b", start.Add(time.Duration(i)*time.Second), window)
		require.NoError(t, err)
	}

	later := start.Add(window + time.Second)
	c, err := repo.Hit(ctx, "bucket-b", later, window)
	require.NoError(t, err)
	require.Equal(t, 1, c.Count)
	require.True(t, c.ResetAt.Equal(later.Add(window)))
}

func TestRedisRateLimitRepository_RolloverAtExactReset(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	_, rdb := newTestRedis(t, start)
	repo := repository.NewRedisRateLimitRepository(rdb, repository.WithRedisRetention(time.Hour))
	ctx := context.Background()

	_, err := repo.Hit(ctx, "edge", start, time.Minute)
	require.NoError(t, err)

	c, err := repo.Hit(ctx, "edge", start.Add(time.Minute), time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, c.Count)
}

func TestRedisRateLimitRepository_ExpiresAfterRetention(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mr, rdb := newTestRedis(t, start)
	repo := repository.NewRedisRateLimitRepository(rdb, repository.WithRedisPrefix("rl"), repository.WithRedisRetention(5*time.Minute))
	ctx := context.Background()

	_, err := repo.Hit(ctx, "short", start, time.Minute)
	require.NoError(t, err)
	require.True(t, mr.Exists("rl:short"))
	require.Equal(t, 6*time.Minute, mr.TTL("rl:short"))

	mr.FastForward(6*time.Minute + time.Second)
	require.False(t, mr.Exists("rl:short"))

	removed, err := repo.DeleteExpired(ctx, start)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestRedisRateLimitRepository_ConcurrentHits(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	_, rdb := newTestRedis(t, now)
	repo := repository.NewRedisRateLimitRepository(rdb)
	ctx := context.Background()

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Hit(ctx, "hot", now, time.Hour); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.Get(ctx, "hot")
	require.NoError(t, err)
	require.Equal(t, callers, stored.Count)
}
