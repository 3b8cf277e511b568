// Package camera acquires single still frames from a capture device.
package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// Permission is the observable device access state.
type Permission int

const (
	PermissionUnknown Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// FacingMode selects the front ("user") or rear ("environment") camera.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// DeviceClass is a coarse form-factor hint.
type DeviceClass string

const (
	Handheld DeviceClass = "handheld"
	Desktop  DeviceClass = "desktop"
)

// FacingFor prefers the rear camera on handheld devices and the front one otherwise.
func FacingFor(class DeviceClass) FacingMode {
	if class == Handheld {
		return FacingEnvironment
	}
	return FacingUser
}

// Constraints are fixed at construction; nothing is negotiated at runtime.
type Constraints struct {
	Width  int
	Height int
	Facing FacingMode
}

// DefaultConstraints is 1280x720 with the facing mode derived from class.
func DefaultConstraints(class DeviceClass) Constraints {
	return Constraints{Width: 1280, Height: 720, Facing: FacingFor(class)}
}

// Device opens a stream on the underlying camera.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream yields still frames from an open device.
type Stream interface {
	Frame(ctx context.Context) (mime string, data []byte, err error)
	Close() error
}

// ErrNoFrame is returned when the device is open but produced no image.
var ErrNoFrame = errors.New("No se pudo capturar la imagen")

// Surface tracks permission for one device and turns frames into data URIs.
// Once denied it stays denied; there is no automatic re-prompt.
type Surface struct {
	device      Device
	constraints Constraints

	mu     sync.Mutex
	perm   Permission
	stream Stream
	// OnPermission observes unknown→granted and unknown→denied.
	OnPermission func(Permission)
}

func NewSurface(device Device, c Constraints) *Surface {
	return &Surface{device: device, constraints: c}
}

// Constraints returns the fixed capture configuration.
func (s *Surface) Constraints() Constraints { return s.constraints }

// Permission returns the current access state.
func (s *Surface) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm
}

// Start opens the device stream. Only the first call has an effect.
func (s *Surface) Start(ctx context.Context) Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perm != PermissionUnknown {
		return s.perm
	}

	stream, err := s.device.Open(ctx, s.constraints)
	if err != nil {
		log.WithError(err).Error(analysis.ErrCaptureUnavailable.Message)
		s.setPermission(PermissionDenied)
		return s.perm
	}
	s.stream = stream
	s.setPermission(PermissionGranted)
	return s.perm
}

// Capture grabs one frame. It fails with CaptureUnavailable unless access was granted.
func (s *Surface) Capture(ctx context.Context) (string, error) {
	s.mu.Lock()
	perm, stream := s.perm, s.stream
	s.mu.Unlock()

	if perm != PermissionGranted || stream == nil {
		return "", analysis.CaptureUnavailable(fmt.Errorf("camera permission %s", perm))
	}

	mime, data, err := stream.Frame(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	if len(data) == 0 {
		return "", ErrNoFrame
	}
	return analysis.EncodeDataURI(mime, data), nil
}

// Close releases the stream. Permission is left as it was.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}

func (s *Surface) setPermission(p Permission) {
	s.perm = p
	if s.OnPermission != nil {
		s.OnPermission(p)
	}
}
