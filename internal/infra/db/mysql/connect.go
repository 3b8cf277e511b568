package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS plant_analyses (
  id                VARCHAR(36)  NOT NULL PRIMARY KEY,
  created_at        DATETIME(6)  NOT NULL,
  plant_type        VARCHAR(255) NOT NULL,
  health_status     VARCHAR(255) NOT NULL,
  confidence        INT          NOT NULL DEFAULT 0,
  diagnosis         TEXT         NOT NULL,
  recommendations   TEXT         NOT NULL,
  image_url         LONGTEXT     NOT NULL,
  pigmentation_data JSON         NULL,
  metadata          JSON         NOT NULL,
  KEY idx_plant_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the analyses table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating plant_analyses: %w", err)
	}
	return nil
}
