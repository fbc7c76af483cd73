package model

import (
	"strings"
	"time"
)

type AlertKind string

const (
	AlertKindSearch AlertKind = "search"
	AlertKindName   AlertKind = "name"
)

// ParseAlertKind maps free input to a kind; anything but "name" is a search.
func ParseAlertKind(raw string) AlertKind {
	if strings.EqualFold(strings.TrimSpace(raw), string(AlertKindName)) {
		return AlertKindName
	}
	return AlertKindSearch
}

type AlertStatus string

const (
	AlertStatusPending      AlertStatus = "pending"
	AlertStatusActive       AlertStatus = "active"
	AlertStatusUnsubscribed AlertStatus = "unsubscribed"
)

type AlertFrequency string

const (
	FrequencyHourly AlertFrequency = "hourly"
	FrequencyDaily  AlertFrequency = "daily"
)

// ParseFrequency maps free input to a frequency; anything but "hourly" is daily.
func ParseFrequency(raw string) AlertFrequency {
	if strings.EqualFold(strings.TrimSpace(raw), string(FrequencyHourly)) {
		return FrequencyHourly
	}
	return FrequencyDaily
}

// Interval is the minimum time between two notifications.
func (f AlertFrequency) Interval() time.Duration {
	if f == FrequencyHourly {
		return time.Hour
	}
	return 24 * time.Hour
}

const (
	MinLimitPerSend     = 1
	MaxLimitPerSend     = 30
	DefaultLimitPerSend = 10
)

// ClampLimitPerSend bounds n to MinLimitPerSend..MaxLimitPerSend; 0 means default.
func ClampLimitPerSend(n int) int {
	switch {
	case n == 0:
		return DefaultLimitPerSend
	case n < MinLimitPerSend:
		return MinLimitPerSend
	case n > MaxLimitPerSend:
		return MaxLimitPerSend
	}
	return n
}

type Alert struct {
	ID              int64
	Email           string
	Kind            AlertKind
	Query           *string
	EntitySlug      *string
	Status          AlertStatus
	Token           string
	Frequency       AlertFrequency
	LimitPerSend    int
	LastCheckedAt   *time.Time
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
}

// AlertHit marks that an item has already been surfaced to an alert.
type AlertHit struct {
	AlertID    int64
	DocumentID int64
	CreatedAt  time.Time
}
