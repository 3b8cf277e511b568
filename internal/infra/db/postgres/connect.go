package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS plant_analyses (
  id                UUID        PRIMARY KEY,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  plant_type        TEXT        NOT NULL,
  health_status     TEXT        NOT NULL,
  confidence        INTEGER     NOT NULL DEFAULT 0,
  diagnosis         TEXT        NOT NULL,
  recommendations   TEXT        NOT NULL,
  image_url         TEXT        NOT NULL,
  pigmentation_data JSONB,
  metadata          JSONB       NOT NULL DEFAULT '{"issues": []}'::jsonb
);
CREATE INDEX IF NOT EXISTS idx_plant_analyses_created ON plant_analyses (created_at DESC);`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the analyses table and its recency index.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating plant_analyses: %w", err)
	}
	return nil
}
