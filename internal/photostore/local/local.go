package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/foodlens/internal/photostore"
)

type LocalPhotoStore struct {
	basePath string
	logger   *slog.Logger
}

var _ photostore.PhotoStore = (*LocalPhotoStore)(nil)

func NewLocalPhotoStore(basePath string, logger *slog.Logger) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalPhotoStore{basePath: basePath, logger: logger}, nil
}

// Save writes r under a fresh key. A partially written file is removed.
func (s *LocalPhotoStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), extFor(mimeType))
	path := filepath.Join(s.basePath, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}

	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		if rerr := os.Remove(path); rerr != nil {
			s.logger.Error("failed to remove partial photo", "key", key, "error", rerr)
		}
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	s.logger.Debug("photo saved", "key", key, "mime_type", mimeType)
	return key, nil
}

func (s *LocalPhotoStore) Get(_ context.Context, storageKey string) (io.ReadCloser, string, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", photostore.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeFor(path), nil
}

func (s *LocalPhotoStore) Delete(_ context.Context, storageKey string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return photostore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// resolve maps a key to a path inside basePath and rejects anything that
// would escape it.
func (s *LocalPhotoStore) resolve(storageKey string) (string, error) {
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(base, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid photo key: %w", err)
	}

	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("photo key %q escapes the photo directory", storageKey)
	}
	return path, nil
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func extFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	return ".jpg"
}

func mimeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpeg" {
		return "image/jpeg"
	}
	for mime, e := range extensions {
		if e == ext {
			return mime
		}
	}
	return "image/jpeg"
}
