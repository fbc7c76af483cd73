//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"time"

	"wissensbank/backend/internal/hashutil"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/pkg/logger"
)

// RateLimitDecision is the outcome of one fixed-window check. Count may
// exceed Limit; callers over the limit keep being counted.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Count     int
	ResetAt   time.Time
}

type RateLimitService interface {
	// Check counts one request against bucket and reports whether it fits.
	Check(ctx context.Context, bucket string, limit int, window time.Duration) (RateLimitDecision, error)
	// CheckClient derives the bucket from the client IP and keyParts, then checks it.
	CheckClient(ctx context.Context, ip string, limit int, window time.Duration, keyParts ...string) (RateLimitDecision, error)
	// PurgeExpired drops counters whose window ended more than retention ago.
	PurgeExpired(ctx context.Context, retention time.Duration) (int64, error)
}

type rateLimitService struct {
	repo  repository.RateLimitRepository
	salt  string
	clock Clock
}

func NewRateLimitService(repo repository.RateLimitRepository, salt string, clock Clock) RateLimitService {
	return &rateLimitService{repo: repo, salt: salt, clock: orSystemClock(clock)}
}

func (s *rateLimitService) Check(ctx context.Context, bucket string, limit int, window time.Duration) (RateLimitDecision, error) {
	if bucket == "" {
		return RateLimitDecision{}, fmt.Errorf("%w: empty bucket", ErrInvalid)
	}
	if limit < 1 || window <= 0 {
		return RateLimitDecision{}, fmt.Errorf("%w: limit %d window %s", ErrInvalid, limit, window)
	}

	counter, err := s.repo.Hit(ctx, bucket, s.clock(), window)
	if err != nil {
		return RateLimitDecision{}, fmt.Errorf("rate limit hit: %w", err)
	}

	remaining := limit - counter.Count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitDecision{
		Allowed:   counter.Count <= limit,
		Limit:     limit,
		Remaining: remaining,
		Count:     counter.Count,
		ResetAt:   counter.ResetAt,
	}, nil
}

func (s *rateLimitService) CheckClient(ctx context.Context, ip string, limit int, window time.Duration, keyParts ...string) (RateLimitDecision, error) {
	return s.Check(ctx, hashutil.BucketKey(s.salt, ip, keyParts...), limit, window)
}

func (s *rateLimitService) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.clock().Add(-retention))
	if err != nil {
		logger.Warn("purge rate limits failed", "module", "service", "action", "delete", "resource", "rate_limit", "result", "failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		logger.Info("rate limits purged", "module", "service", "action", "delete", "resource", "rate_limit", "result", "ok", "count", removed)
	}
	return removed, nil
}
