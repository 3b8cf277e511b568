package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/bryanwahyu/agro-inteligente/internal/application"
	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// Service implements the analysis use-cases on top of the domain ports.
// It is safe for concurrent use.
type Service struct {
	Analyzer domain.Analyzer
	Repo     domain.Repository
	// Archive is optional; when set, stills are copied there before the row is inserted.
	Archive domain.SnapshotArchive
	Clock   application.Clock
	NewID   func() domain.RecordID

	mu   sync.Mutex
	last time.Time
}

func NewService(analyzer domain.Analyzer, repo domain.Repository, clock application.Clock) *Service {
	return &Service{Analyzer: analyzer, Repo: repo, Clock: clock}
}

// Analyze runs one diagnosis. No retry is attempted on any failure.
func (s *Service) Analyze(ctx context.Context, image string) (domain.Result, error) {
	if strings.TrimSpace(image) == "" {
		return domain.Result{}, domain.ErrMissingInput
	}
	return s.Analyzer.Analyze(ctx, image)
}

// Record persists a completed analysis. created_at is assigned here and strictly
// increases across inserts made through this service.
func (s *Service) Record(ctx context.Context, image string, res domain.Result) (*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.StoreError(errNoRepository)
	}
	rec := domain.NewRecord(s.nextID(), s.now(), image, res)

	if s.Archive != nil && image != "" {
		if key, err := s.Archive.Archive(ctx, rec.ID, image); err != nil {
			log.WithError(err).WithField("id", rec.ID).Warn("snapshot archive failed")
		} else {
			log.WithFields(log.Fields{"id": rec.ID, "object": key}).Debug("snapshot archived")
		}
	}

	if err := s.Repo.Insert(ctx, rec); err != nil {
		return nil, domain.StoreError(err)
	}
	return rec, nil
}

// Recent returns at most limit records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.StoreError(errNoRepository)
	}
	if limit <= 0 {
		limit = domain.RecentLimit
	}
	out, err := s.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) nextID() domain.RecordID {
	if s.NewID != nil {
		return s.NewID()
	}
	return domain.RecordID(uuid.New().String())
}

func (s *Service) now() time.Time {
	var now time.Time
	if s.Clock != nil {
		now = s.Clock.Now()
	} else {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Microsecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}
