//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"wissensbank/backend/internal/model"
	"wissensbank/backend/pkg/snowflake"
)

type SubscriberRepository interface {
	// Upsert creates a pending subscriber or rotates the token of an existing
	// one; unsubscribed rows return to pending.
	Upsert(ctx context.Context, email, token string, at time.Time) (model.Subscriber, error)
	Confirm(ctx context.Context, email, token string, at time.Time) (bool, error)
	Unsubscribe(ctx context.Context, email, token string) (bool, error)
	// ListActive returns confirmed subscribers in signup order, at most limit rows.
	ListActive(ctx context.Context, limit int) ([]model.Subscriber, error)
}

type subscriberRepository struct {
	db dbtx
}

func NewSubscriberRepository(db *sql.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Upsert(ctx context.Context, email, token string, at time.Time) (model.Subscriber, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (id, email, status, token, created_at)
		VALUES (?, ?, 'pending', ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			status = CASE WHEN newsletter_subscribers.status = 'unsubscribed' THEN 'pending' ELSE newsletter_subscribers.status END,
			token = excluded.token,
			created_at = excluded.created_at
		RETURNING id, email, status, token, confirmed_at, created_at
	`, snowflake.NextID(), email, token, formatTime(at))

	var s model.Subscriber
	var status, createdAt string
	var confirmedAt sql.NullString
	if err := row.Scan(&s.ID, &s.Email, &status, &s.Token, &confirmedAt, &createdAt); err != nil {
		return model.Subscriber{}, err
	}
	s.Status = model.AlertStatus(status)
	if confirmedAt.Valid {
		if t, err := parseTime(confirmedAt.String); err == nil {
			s.ConfirmedAt = &t
		}
	}
	s.CreatedAt, _ = parseTime(createdAt)
	return s, nil
}

func (r *subscriberRepository) Confirm(ctx context.Context, email, token string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers SET status = 'active', confirmed_at = ?
		WHERE email = ? AND token = ?
	`, formatTime(at), email, token)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *subscriberRepository) Unsubscribe(ctx context.Context, email, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers SET status = 'unsubscribed'
		WHERE email = ? AND token = ?
	`, email, token)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *subscriberRepository) ListActive(ctx context.Context, limit int) ([]model.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, status, token, confirmed_at, created_at
		FROM newsletter_subscribers
		WHERE status = 'active'
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Subscriber
	for rows.Next() {
		var s model.Subscriber
		var status, createdAt string
		var confirmedAt sql.NullString
		if err := rows.Scan(&s.ID, &s.Email, &status, &s.Token, &confirmedAt, &createdAt); err != nil {
			return nil, err
		}
		s.Status = model.AlertStatus(status)
		if confirmedAt.Valid {
			if t, err := parseTime(confirmedAt.String); err == nil {
				s.ConfirmedAt = &t
			}
		}
		s.CreatedAt, _ = parseTime(createdAt)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
