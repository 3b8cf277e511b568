// Package recordstore opens the Analysis Record Store selected by configuration.
package recordstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/agro-inteligente/internal/config"
	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	mysqlp "github.com/bryanwahyu/agro-inteligente/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/agro-inteligente/internal/infra/db/postgres"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/db/sqlite"
)

// Handle is an open store plus its connection, kept for health checks.
type Handle struct {
	analysis.Repository
	DB *sql.DB
}

func (h *Handle) Close() error { return h.DB.Close() }

// Open connects using cfg.Database.Driver (mysql, postgres or sqlite) and makes sure
// the analyses table exists.
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect error: %w", err)
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Handle{Repository: mysqlp.NewAnalysisRepository(db), DB: db}, nil
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect error: %w", err)
		}
		if err := postgresp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Handle{Repository: postgresp.NewAnalysisRepository(db), DB: db}, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		return &Handle{Repository: store, DB: store.DB()}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
