//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"wissensbank/backend/internal/model"
)

// RateLimitRepository stores fixed-window counters.
type RateLimitRepository interface {
	// Hit counts one request against bucket in a single atomic store operation:
	// a missing or expired window (reset_at <= now) restarts at 1 with
	// reset_at = now + window, otherwise count is incremented and reset_at kept.
	Hit(ctx context.Context, bucket string, now time.Time, window time.Duration) (model.RateLimitCounter, error)
	// Get returns nil, nil when the bucket has never been seen.
	Get(ctx context.Context, bucket string) (*model.RateLimitCounter, error)
	// DeleteExpired removes counters whose window ended before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type rateLimitRepository struct {
	db dbtx
}

// NewRateLimitRepository creates a SQLite-backed counter store.
func NewRateLimitRepository(db *sql.DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) Hit(ctx context.Context, bucket string, now time.Time, window time.Duration) (model.RateLimitCounter, error) {
	nowMs := toMillis(now)
	resetMs := toMillis(now.Add(window))

	var count int
	var resetAt int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rate_limits (bucket, count, reset_at, updated_at)
		VALUES (?1, 1, ?2, ?3)
		ON CONFLICT (bucket) DO UPDATE SET
			count = CASE
				WHEN rate_limits.reset_at <= ?3 THEN 1
				ELSE rate_limits.count + 1
			END,
			reset_at = CASE
				WHEN rate_limits.reset_at <= ?3 THEN ?2
				ELSE rate_limits.reset_at
			END,
			updated_at = ?3
		RETURNING count, reset_at
	`, bucket, resetMs, nowMs).Scan(&count, &resetAt)
	if err != nil {
		return model.RateLimitCounter{}, err
	}

	return model.RateLimitCounter{
		Bucket:    bucket,
		Count:     count,
		ResetAt:   fromMillis(resetAt),
		UpdatedAt: fromMillis(nowMs),
	}, nil
}

func (r *rateLimitRepository) Get(ctx context.Context, bucket string) (*model.RateLimitCounter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT bucket, count, reset_at, updated_at FROM rate_limits WHERE bucket = ?
	`, bucket)

	var c model.RateLimitCounter
	var resetAt, updatedAt int64
	if err := row.Scan(&c.Bucket, &c.Count, &resetAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.ResetAt = fromMillis(resetAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func (r *rateLimitRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE reset_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
