//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"

	"wissensbank/backend/internal/model"
	"wissensbank/backend/pkg/snowflake"
)

type AlertRepository interface {
	Create(ctx context.Context, alert model.Alert) (model.Alert, error)
	GetByID(ctx context.Context, id int64) (model.Alert, error)
	// Confirm activates a pending alert when token matches. Already-active
	// alerts report true; unsubscribed alerts never change.
	Confirm(ctx context.Context, id int64, token string) (bool, error)
	// Unsubscribe moves any alert to unsubscribed when token matches.
	Unsubscribe(ctx context.Context, id int64, token string, at time.Time) (bool, error)
	// ListDue returns active alerts, never-checked first, then oldest check first.
	ListDue(ctx context.Context, limit int) ([]model.Alert, error)
	TouchChecked(ctx context.Context, id int64, at time.Time) error
	TouchTriggered(ctx context.Context, id int64, at time.Time) error
}

type alertRepository struct {
	db dbtx
}

func NewAlertRepository(db *sql.DB) AlertRepository {
	return &alertRepository{db: db}
}

const alertColumns = `id, email, kind, query, entity_slug, status, token, frequency, limit_per_send, last_checked_at, last_triggered_at, created_at`

func (r *alertRepository) Create(ctx context.Context, alert model.Alert) (model.Alert, error) {
	if alert.ID == 0 {
		alert.ID = snowflake.NextID()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if alert.Status == "" {
		alert.Status = model.AlertStatusPending
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (id, email, kind, query, entity_slug, status, token, frequency, limit_per_send, last_checked_at, last_triggered_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, alert.ID, alert.Email, string(alert.Kind), nullableString(alert.Query), nullableString(alert.EntitySlug),
		string(alert.Status), alert.Token, string(alert.Frequency), alert.LimitPerSend,
		nullableMillis(alert.LastCheckedAt), nullableMillis(alert.LastTriggeredAt), formatTime(alert.CreatedAt))
	if err != nil {
		return model.Alert{}, err
	}
	return alert, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id int64) (model.Alert, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	return scanAlert(row)
}

func (r *alertRepository) Confirm(ctx context.Context, id int64, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET status = 'active'
		WHERE id = ? AND token = ? AND status IN ('pending', 'active')
	`, id, token)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *alertRepository) Unsubscribe(ctx context.Context, id int64, token string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET status = 'unsubscribed', last_triggered_at = ?
		WHERE id = ? AND token = ?
	`, toMillis(at), id, token)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *alertRepository) ListDue(ctx context.Context, limit int) ([]model.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+alertColumns+` FROM alerts
		WHERE status = 'active'
		ORDER BY last_checked_at ASC NULLS FIRST, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *alertRepository) TouchChecked(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET last_checked_at = ? WHERE id = ?`, toMillis(at), id)
	return err
}

func (r *alertRepository) TouchTriggered(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET last_triggered_at = ? WHERE id = ?`, toMillis(at), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (model.Alert, error) {
	var a model.Alert
	var kind, status, frequency, createdAt string
	var query, entitySlug sql.NullString
	var lastChecked, lastTriggered sql.NullInt64
	if err := row.Scan(&a.ID, &a.Email, &kind, &query, &entitySlug, &status, &a.Token, &frequency,
		&a.LimitPerSend, &lastChecked, &lastTriggered, &createdAt); err != nil {
		return model.Alert{}, err
	}
	a.Kind = model.AlertKind(kind)
	a.Status = model.AlertStatus(status)
	a.Frequency = model.AlertFrequency(frequency)
	a.Query = fromNullString(query)
	a.EntitySlug = fromNullString(entitySlug)
	a.LastCheckedAt = fromNullMillis(lastChecked)
	a.LastTriggeredAt = fromNullMillis(lastTriggered)
	a.CreatedAt, _ = parseTime(createdAt)
	return a, nil
}
