package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	dbrow "github.com/bryanwahyu/agro-inteligente/internal/infra/db"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Insert stores one analysis row
func (r *AnalysisRepository) Insert(ctx context.Context, a *analysis.Record) error {
	const q = `
INSERT INTO plant_analyses
  (id, created_at, plant_type, health_status, confidence, diagnosis, recommendations, image_url, pigmentation_data, metadata)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);
`
	pigmentation, metadata, err := dbrow.EncodeJSON(a)
	if err != nil {
		return analysis.StoreError(err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.CreatedAt.UTC(), a.PlantType, a.HealthStatus, a.Confidence,
		a.Diagnosis, a.Recommendations, a.ImageURL, pigmentation, metadata,
	)
	return analysis.StoreError(err)
}

// ListRecent returns the newest records first
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*analysis.Record, error) {
	const q = `
SELECT ` + dbrow.Columns + `
FROM plant_analyses
ORDER BY created_at DESC, id DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, dbrow.LimitOrDefault(limit))
	if err != nil {
		return nil, analysis.StoreError(err)
	}
	defer rows.Close()

	out := []*analysis.Record{}
	for rows.Next() {
		rec, err := dbrow.ScanRecord(rows, nil)
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
