//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"time"
)

// AlertHitRepository is the dedup ledger of (alert, document) notifications.
type AlertHitRepository interface {
	// Record inserts the pair and reports whether a new row was created.
	// An existing pair is a no-op, not an error.
	Record(ctx context.Context, alertID, documentID int64, at time.Time) (bool, error)
	Count(ctx context.Context, alertID int64) (int, error)
}

type alertHitRepository struct {
	db dbtx
}

func NewAlertHitRepository(db *sql.DB) AlertHitRepository {
	return &alertHitRepository{db: db}
}

func (r *alertHitRepository) Record(ctx context.Context, alertID, documentID int64, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_hits (alert_id, document_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (alert_id, document_id) DO NOTHING
	`, alertID, documentID, formatTime(at))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *alertHitRepository) Count(ctx context.Context, alertID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert_hits WHERE alert_id = ?`, alertID).Scan(&n)
	return n, err
}
