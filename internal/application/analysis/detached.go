package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"

	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// Recorder persists a completed analysis.
type Recorder interface {
	Record(ctx context.Context, image string, res domain.Result) (*domain.Record, error)
}

// DefaultWriteTimeout bounds one detached write.
const DefaultWriteTimeout = 30 * time.Second

// Detached runs store writes that the user-visible flow never waits on.
// A failed write only reaches OnFailure, which logs by default.
type Detached struct {
	Recorder Recorder
	Timeout  time.Duration
	// OnFailure is the logging-only failure channel.
	OnFailure func(err error)
	// OnStored, when set, observes successful writes.
	OnStored func(rec *domain.Record)

	wg sync.WaitGroup
}

func NewDetached(r Recorder) *Detached {
	return &Detached{Recorder: r, Timeout: DefaultWriteTimeout}
}

// Go starts the write and returns immediately. The write does not inherit the
// caller's context, so it outlives the request that produced the result.
func (d *Detached) Go(image string, res domain.Result) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		timeout := d.Timeout
		if timeout <= 0 {
			timeout = DefaultWriteTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rec, err := d.Recorder.Record(ctx, image, res)
		if err != nil {
			d.fail(err)
			return
		}
		log.WithFields(log.Fields{"id": rec.ID, "plant_type": rec.PlantType}).Info("análisis guardado")
		if d.OnStored != nil {
			d.OnStored(rec)
		}
	}()
}

// Wait blocks until pending writes finish or ctx is done.
func (d *Detached) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Detached) fail(err error) {
	if d.OnFailure != nil {
		d.OnFailure(err)
		return
	}
	log.WithError(err).Error("error al guardar en BD")
}
