//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"

	"wissensbank/backend/internal/model"
)

type EntityRepository interface {
	// GetBySlug returns nil, nil when no entity has slug.
	GetBySlug(ctx context.Context, slug string) (*model.Entity, error)
}

type entityRepository struct {
	db dbtx
}

func NewEntityRepository(db *sql.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) GetBySlug(ctx context.Context, slug string) (*model.Entity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, slug, name FROM entities WHERE slug = ? LIMIT 1`, slug)

	var e model.Entity
	if err := row.Scan(&e.ID, &e.Slug, &e.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
