package model

import "time"

// RateLimitCounter is the fixed-window counter stored per bucket.
type RateLimitCounter struct {
	Bucket    string
	Count     int
	ResetAt   time.Time
	UpdatedAt time.Time
}
