package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"wissensbank/backend/internal/db"
	"wissensbank/backend/internal/hashutil"
	"wissensbank/backend/internal/model"
	"wissensbank/backend/pkg/snowflake"

	_ "modernc.org/sqlite"
)

// snowflakeOnce initializes snowflake once across parallel tests.
var snowflakeOnce sync.Once

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			// t.Fatalf is not usable inside sync.Once.
			panic("failed to initialize snowflake: " + err.Error())
		}
	})

	// Shared cache keeps the in-memory database alive across pooled
	// connections; a unique name per test avoids collisions.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", name, time.Now().UnixNano())
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

func millisVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func ptrVal[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// SeedAlert inserts an alert and returns its ID. Zero fields get usable defaults.
func SeedAlert(t *testing.T, db *sql.DB, alert model.Alert) int64 {
	t.Helper()

	if alert.ID == 0 {
		alert.ID = snowflake.NextID()
	}
	if alert.Email == "" {
		alert.Email = "reader@example.com"
	}
	if alert.Kind == "" {
		alert.Kind = model.AlertKindSearch
	}
	if alert.Status == "" {
		alert.Status = model.AlertStatusActive
	}
	if alert.Token == "" {
		alert.Token = fmt.Sprintf("token-%d", alert.ID)
	}
	if alert.Frequency == "" {
		alert.Frequency = model.FrequencyDaily
	}
	if alert.LimitPerSend == 0 {
		alert.LimitPerSend = model.DefaultLimitPerSend
	}

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO alerts (id, email, kind, query, entity_slug, status, token, frequency, limit_per_send, last_checked_at, last_triggered_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.Email, string(alert.Kind), ptrVal(alert.Query), ptrVal(alert.EntitySlug), string(alert.Status),
		alert.Token, string(alert.Frequency), alert.LimitPerSend, millisVal(alert.LastCheckedAt), millisVal(alert.LastTriggeredAt),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("failed to seed alert: %v", err)
	}

	return alert.ID
}

// SeedDocument inserts a document and returns its ID.
func SeedDocument(t *testing.T, db *sql.DB, doc model.Document) int64 {
	t.Helper()

	if doc.ID == 0 {
		doc.ID = snowflake.NextID()
	}
	if doc.Slug == "" {
		doc.Slug = fmt.Sprintf("doc-%d", doc.ID)
	}
	if doc.Hash == "" {
		doc.Hash = hashutil.SHA256Hex(doc.Slug)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO documents (id, slug, title, excerpt, public_summary, source_name, url, hash, published_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Slug, doc.Title, ptrVal(doc.Excerpt), ptrVal(doc.PublicSummary), ptrVal(doc.SourceName),
		ptrVal(doc.URL), doc.Hash, millisVal(doc.PublishedAt), doc.CreatedAt.UnixMilli(),
	)
	if err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	return doc.ID
}

// SeedEntity inserts a named entity and returns its ID.
func SeedEntity(t *testing.T, db *sql.DB, slug, name string) int64 {
	t.Helper()

	id := snowflake.NextID()
	_, err := db.ExecContext(context.Background(), `INSERT INTO entities (id, slug, name) VALUES (?, ?, ?)`, id, slug, name)
	if err != nil {
		t.Fatalf("failed to seed entity: %v", err)
	}
	return id
}

// AlertStatus reads the stored status of an alert.
func AlertStatus(t *testing.T, db *sql.DB, id int64) model.AlertStatus {
	t.Helper()

	var status string
	if err := db.QueryRowContext(context.Background(), `SELECT status FROM alerts WHERE id = ?`, id).Scan(&status); err != nil {
		t.Fatalf("failed to read alert status: %v", err)
	}
	return model.AlertStatus(status)
}

func StringPtr(s string) *string { return &s }

func TimePtr(t time.Time) *time.Time { return &t }
