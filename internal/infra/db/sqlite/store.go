// Package sqlite is the embedded Analysis Record Store, used for local setups and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	dbrow "github.com/bryanwahyu/agro-inteligente/internal/infra/db"
)

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS plant_analyses (
  id                TEXT    PRIMARY KEY,
  created_at        TEXT    NOT NULL,
  plant_type        TEXT    NOT NULL,
  health_status     TEXT    NOT NULL,
  confidence        INTEGER NOT NULL DEFAULT 0,
  diagnosis         TEXT    NOT NULL,
  recommendations   TEXT    NOT NULL,
  image_url         TEXT    NOT NULL,
  pigmentation_data TEXT,
  metadata          TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plant_analyses_created ON plant_analyses (created_at);`

// Store wraps a SQLite database holding the analyses table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and applies the schema.
// Pass ":memory:" for an in-memory database (used by tests).
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection: avoids "database is locked" and keeps :memory: a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, a *analysis.Record) error {
	pigmentation, metadata, err := dbrow.EncodeJSON(a)
	if err != nil {
		return analysis.StoreError(err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plant_analyses (`+dbrow.Columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), a.CreatedAt.UTC().Format(timeLayout), a.PlantType, a.HealthStatus, a.Confidence,
		a.Diagnosis, a.Recommendations, a.ImageURL, pigmentation, metadata,
	)
	return analysis.StoreError(err)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*analysis.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dbrow.Columns+`
		FROM plant_analyses ORDER BY created_at DESC, id DESC LIMIT ?`, dbrow.LimitOrDefault(limit),
	)
	if err != nil {
		return nil, analysis.StoreError(err)
	}
	defer rows.Close()

	out := []*analysis.Record{}
	for rows.Next() {
		rec, err := dbrow.ScanRecord(rows, parseTime)
		if err != nil {
			return nil, analysis.StoreError(err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, analysis.StoreError(err)
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
