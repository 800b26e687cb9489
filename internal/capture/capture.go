// Package capture owns the device camera. At most one stream is open at a
// time; opening a new one closes the previous one first.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Facing selects the camera. Environment is the rear camera.
type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

func (f Facing) Flip() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

var (
	ErrNoStream = errors.New("camera is not running")
	ErrClosed   = errors.New("camera stream closed")
	ErrNoFrame  = errors.New("camera has no frame available")
)

// Stream is an open camera. Frame returns the current image as encoded bytes.
type Stream interface {
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

// Source opens camera streams.
type Source interface {
	Open(ctx context.Context, facing Facing) (Stream, error)
}

// Manager holds the single shared camera stream.
type Manager struct {
	mu     sync.Mutex
	source Source
	stream Stream
	facing Facing
	logger *slog.Logger
}

func NewManager(source Source, logger *slog.Logger) *Manager {
	return &Manager{
		source: source,
		facing: FacingEnvironment,
		logger: logger,
	}
}

// Start opens a stream for facing, closing any stream already open.
func (m *Manager) Start(ctx context.Context, facing Facing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	stream, err := m.source.Open(ctx, facing)
	if err != nil {
		return fmt.Errorf("failed to start %s camera: %w", facing, err)
	}
	m.stream = stream
	m.facing = facing
	m.logger.Debug("camera started", "facing", facing)
	return nil
}

// Stop releases the stream. Stopping an idle manager is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.stream == nil {
		return
	}
	if err := m.stream.Close(); err != nil {
		m.logger.Warn("failed to close camera stream", "facing", m.facing, "error", err)
	}
	m.stream = nil
	m.logger.Debug("camera stopped", "facing", m.facing)
}

// SwitchCamera restarts the stream on the other camera.
func (m *Manager) SwitchCamera(ctx context.Context) error {
	m.mu.Lock()
	next := m.facing.Flip()
	m.mu.Unlock()
	return m.Start(ctx, next)
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil
}

func (m *Manager) Facing() Facing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.facing
}

// Snapshot grabs the current frame as a JPEG data URI.
func (m *Manager) Snapshot(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return "", ErrNoStream
	}
	frame, err := m.stream.Frame(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read frame: %w", err)
	}
	return toDataURI(frame)
}
