// Package session drives one user's capture → analyze → record cycle.
//
// A cycle moves Idle → Capturing → Analyzing → Succeeded|Failed → Idle. At most one
// cycle is in flight; a second Run while one is active fails with ErrBusy instead of
// queueing. The store write after a success is detached and never changes state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"

	appanalysis "github.com/bryanwahyu/agro-inteligente/internal/application/analysis"
	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

type State int

const (
	Idle State = iota
	Capturing
	Analyzing
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	case Analyzing:
		return "analyzing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// View is what the presentation layer renders at any moment.
type View struct {
	State State
	// Result is nil while analyzing and after a failure.
	Result *domain.Result
	Image  string
	// Err is the last cycle's failure, shown as a notification.
	Err error
}

// CaptureEnabled reports whether the capture trigger should be offered.
func (v View) CaptureEnabled() bool {
	return v.State != Capturing && v.State != Analyzing
}

type Session struct {
	camera   domain.Camera
	analyzer domain.Analyzer
	writes   *appanalysis.Detached

	mu   sync.Mutex
	view View
	// OnTransition observes every state change, e.g. to redraw a prompt. It runs
	// with the session locked and must not call back into the session.
	OnTransition func(from, to State)
}

// New builds a session. writes may be nil when nothing should be persisted.
func New(camera domain.Camera, analyzer domain.Analyzer, writes *appanalysis.Detached) *Session {
	return &Session{camera: camera, analyzer: analyzer, writes: writes}
}

// View returns a copy of the current display state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	if v.Result != nil {
		r := *v.Result
		v.Result = &r
	}
	return v
}

// Run performs one full cycle and returns its outcome.
func (s *Session) Run(ctx context.Context) (domain.Result, error) {
	if err := s.begin(); err != nil {
		return domain.Result{}, err
	}

	image, err := s.camera.Capture(ctx)
	if err != nil {
		// the previous result stays on screen; only analysis clears it
		s.mu.Lock()
		s.view.Err = err
		s.transition(Failed)
		s.transition(Idle)
		s.mu.Unlock()
		return domain.Result{}, err
	}
	return s.analyze(ctx, image)
}

// AnalyzeImage runs a cycle for an image that was captured elsewhere.
func (s *Session) AnalyzeImage(ctx context.Context, image string) (domain.Result, error) {
	if err := s.begin(); err != nil {
		return domain.Result{}, err
	}
	return s.analyze(ctx, image)
}

// Wait blocks until detached writes finish or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	if s.writes == nil {
		return nil
	}
	return s.writes.Wait(ctx)
}

func (s *Session) analyze(ctx context.Context, image string) (domain.Result, error) {
	s.mu.Lock()
	s.view.Result = nil
	s.view.Image = image
	s.view.Err = nil
	s.transition(Analyzing)
	s.mu.Unlock()

	res, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		log.WithError(err).WithField("kind", domain.KindOf(err)).Error("error al analizar")
		s.finish(nil, err)
		return domain.Result{}, err
	}

	s.finish(&res, nil)
	if s.writes != nil {
		s.writes.Go(image, res)
	}
	return res, nil
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.State == Capturing || s.view.State == Analyzing {
		return domain.ErrBusy
	}
	s.transition(Capturing)
	return nil
}

func (s *Session) finish(res *domain.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.view.Result = nil
		s.view.Err = err
		s.transition(Failed)
	} else {
		s.view.Result = res
		s.view.Err = nil
		s.transition(Succeeded)
	}
	s.transition(Idle)
}

// transition must be called with mu held.
func (s *Session) transition(to State) {
	from := s.view.State
	s.view.State = to
	if s.OnTransition != nil {
		s.OnTransition(from, to)
	}
}
