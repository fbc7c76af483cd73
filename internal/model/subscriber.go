package model

import "time"

// Subscriber is a newsletter recipient. Status reuses the alert lifecycle.
type Subscriber struct {
	ID          int64
	Email       string
	Status      AlertStatus
	Token       string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}
