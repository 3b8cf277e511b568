// Package db holds the column codec shared by the SQL store drivers.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// Table is the logical analyses table.
const Table = "plant_analyses"

// Columns in the order every driver selects them.
const Columns = `id, created_at, plant_type, health_status, confidence, diagnosis, recommendations, image_url, pigmentation_data, metadata`

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// EncodeJSON returns the JSON columns for r. Pigmentation is NULL when absent.
func EncodeJSON(r *analysis.Record) (pigmentation sql.NullString, metadata string, err error) {
	if r.Pigmentation != nil {
		b, err := json.Marshal(r.Pigmentation)
		if err != nil {
			return sql.NullString{}, "", fmt.Errorf("encoding pigmentation: %w", err)
		}
		pigmentation = sql.NullString{String: string(b), Valid: true}
	}
	md := r.Metadata
	if md.Issues == nil {
		md.Issues = []string{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return sql.NullString{}, "", fmt.Errorf("encoding metadata: %w", err)
	}
	return pigmentation, string(b), nil
}

// ScanRecord reads one row selected with Columns. parseTime converts the raw
// created_at value; drivers that scan into time.Time directly pass nil.
func ScanRecord(s Scanner, parseTime func(string) (time.Time, error)) (*analysis.Record, error) {
	var (
		r            analysis.Record
		createdRaw   any
		pigmentation sql.NullString
		metadata     sql.NullString
	)
	if err := s.Scan(&r.ID, &createdRaw, &r.PlantType, &r.HealthStatus, &r.Confidence,
		&r.Diagnosis, &r.Recommendations, &r.ImageURL, &pigmentation, &metadata); err != nil {
		return nil, err
	}

	switch v := createdRaw.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parseTime == nil {
			return nil, fmt.Errorf("unexpected text created_at %q", v)
		}
		t, err := parseTime(v)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.CreatedAt = t
	case []byte:
		if parseTime == nil {
			return nil, fmt.Errorf("unexpected text created_at %q", v)
		}
		t, err := parseTime(string(v))
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.CreatedAt = t
	default:
		return nil, fmt.Errorf("unsupported created_at type %T", createdRaw)
	}

	if pigmentation.Valid && pigmentation.String != "" && pigmentation.String != "null" {
		var p analysis.Pigmentation
		if err := json.Unmarshal([]byte(pigmentation.String), &p); err != nil {
			return nil, fmt.Errorf("decoding pigmentation: %w", err)
		}
		r.Pigmentation = &p
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &r.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	if r.Metadata.Issues == nil {
		r.Metadata.Issues = []string{}
	}
	return &r, nil
}

// LimitOrDefault falls back to analysis.RecentLimit for non-positive limits.
func LimitOrDefault(limit int) int {
	if limit <= 0 {
		return analysis.RecentLimit
	}
	return limit
}
