package model

import "time"

type Document struct {
	ID            int64
	Slug          string
	Title         string
	Excerpt       *string
	PublicSummary *string
	SourceName    *string
	URL           *string
	Hash          string
	PublishedAt   *time.Time
	CreatedAt     time.Time
}

// EffectiveTime is the publication time, or the ingest time when unknown.
func (d Document) EffectiveTime() time.Time {
	if d.PublishedAt != nil {
		return *d.PublishedAt
	}
	return d.CreatedAt
}

type Entity struct {
	ID   int64
	Slug string
	Name string
}
