//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"wissensbank/backend/internal/model"
	"wissensbank/backend/pkg/snowflake"
)

type DocumentRepository interface {
	// Search returns documents whose effective time is after since and whose
	// title, excerpt or public summary contains term (case-insensitive),
	// newest first, at most limit rows.
	Search(ctx context.Context, term string, since time.Time, limit int) ([]model.Document, error)
	// ListRecent returns documents published at or after since, newest first.
	ListRecent(ctx context.Context, since time.Time, limit int) ([]model.Document, error)
	// CreateIfAbsent inserts doc unless a document with the same hash exists.
	CreateIfAbsent(ctx context.Context, doc model.Document) (bool, error)
}

type documentRepository struct {
	db dbtx
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Search(ctx context.Context, term string, since time.Time, limit int) ([]model.Document, error) {
	// unicode_lower is registered by internal/db.
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, title, excerpt, public_summary, source_name, url, hash, published_at, created_at
		FROM documents
		WHERE (unicode_lower(title) LIKE ?1 ESCAPE '\'
			OR unicode_lower(COALESCE(excerpt, '')) LIKE ?1 ESCAPE '\'
			OR unicode_lower(COALESCE(public_summary, '')) LIKE ?1 ESCAPE '\')
			AND COALESCE(published_at, created_at) > ?2
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
		LIMIT ?3
	`, pattern, toMillis(since), limit)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (r *documentRepository) ListRecent(ctx context.Context, since time.Time, limit int) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, title, excerpt, public_summary, source_name, url, hash, published_at, created_at
		FROM documents
		WHERE published_at >= ?
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`, toMillis(since), limit)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var excerpt, summary, source, url sql.NullString
		var published sql.NullInt64
		var created int64
		if err := rows.Scan(&d.ID, &d.Slug, &d.Title, &excerpt, &summary, &source, &url, &d.Hash, &published, &created); err != nil {
			return nil, err
		}
		d.Excerpt = fromNullString(excerpt)
		d.PublicSummary = fromNullString(summary)
		d.SourceName = fromNullString(source)
		d.URL = fromNullString(url)
		d.PublishedAt = fromNullMillis(published)
		d.CreatedAt = fromMillis(created)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentRepository) CreateIfAbsent(ctx context.Context, doc model.Document) (bool, error) {
	if doc.ID == 0 {
		doc.ID = snowflake.NextID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, slug, title, excerpt, public_summary, source_name, url, hash, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, doc.ID, doc.Slug, doc.Title, nullableString(doc.Excerpt), nullableString(doc.PublicSummary),
		nullableString(doc.SourceName), nullableString(doc.URL), doc.Hash, nullableMillis(doc.PublishedAt), toMillis(doc.CreatedAt))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
