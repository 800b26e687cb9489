package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DirSource is a camera backed by a directory of image files. The newest
// file is the current frame. Files for the user-facing camera live in a
// "user" subdirectory when one exists.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) Open(_ context.Context, facing Facing) (Stream, error) {
	dir := s.Dir
	if facing == FacingUser {
		sub := filepath.Join(s.Dir, string(FacingUser))
		if info, err := os.Stat(sub); err == nil && info.IsDir() {
			dir = sub
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("camera directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("camera directory %s is not a directory", dir)
	}
	return &dirStream{dir: dir}, nil
}

type dirStream struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

func (s *dirStream) Frame(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list camera directory: %w", err)
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest, newestMod = e.Name(), info.ModTime()
		}
	}
	if newest == "" {
		return nil, ErrNoFrame
	}

	data, err := os.ReadFile(filepath.Join(s.dir, newest))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoFrame
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	return data, nil
}

func (s *dirStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}
