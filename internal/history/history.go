package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/foodlens/internal/datauri"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/photostore"
)

const (
	// HistoryKey is the storage key of the saved analyses.
	HistoryKey = "foodHistory"
	// MaxEntries bounds the saved analyses; the oldest are dropped first.
	MaxEntries = 20

	photoPrefix = "capture"
)

// kvStore is the subset of store.KVStore the history needs.
type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is the bounded, newest-first log of past analyses.
type Store struct {
	mu     sync.Mutex
	kv     kvStore
	photos photostore.PhotoStore
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(kv kvStore, photos photostore.PhotoStore, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		photos: photos,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the saved entries, newest first.
func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Append prepends entry and truncates the log to MaxEntries. A zero
// Timestamp is assigned from the clock, past the newest entry. A timestamp
// already in use is moved to the next free millisecond so timestamps stay
// unique as entry keys.
func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return domain.HistoryEntry{}, err
	}

	if entry.Timestamp == 0 {
		entry.Timestamp = s.now().UnixMilli()
		if len(entries) > 0 && entry.Timestamp <= entries[0].Timestamp {
			entry.Timestamp = entries[0].Timestamp + 1
		}
	}
	entry.Timestamp = freeTimestamp(entries, entry.Timestamp)
	entry.Normalize()

	entries = append([]domain.HistoryEntry{entry}, entries...)
	var dropped []domain.HistoryEntry
	if len(entries) > MaxEntries {
		dropped = entries[MaxEntries:]
		entries = entries[:MaxEntries]
	}

	if err := s.save(ctx, entries); err != nil {
		return domain.HistoryEntry{}, err
	}
	s.deletePhotos(ctx, dropped)

	s.logger.Debug("history entry added", "timestamp", entry.Timestamp, "food_name", entry.FoodName, "dropped", len(dropped))
	return entry, nil
}

// AddAnalysis records a camera analysis. The captured image is kept in the
// photo store and the entry references it by key.
func (s *Store) AddAnalysis(ctx context.Context, result *domain.FoodAnalysisResult, image string) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{FoodAnalysisResult: *result}
	entry.Timestamp = 0
	entry.Image = ""

	if image != "" {
		data, mimeType, err := datauri.Decode(image)
		if err != nil {
			return domain.HistoryEntry{}, fmt.Errorf("failed to decode captured image: %w", err)
		}
		key, err := s.photos.Save(ctx, photoPrefix, mimeType, bytes.NewReader(data))
		if err != nil {
			return domain.HistoryEntry{}, fmt.Errorf("failed to save captured image: %w", err)
		}
		entry.Image = key
	}

	saved, err := s.Append(ctx, entry)
	if err != nil && entry.Image != "" {
		s.deletePhotos(ctx, []domain.HistoryEntry{entry})
	}
	return saved, err
}

// AddSearch records a name search together with the query that produced it.
func (s *Store) AddSearch(ctx context.Context, result *domain.FoodAnalysisResult, query string) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{FoodAnalysisResult: *result, SearchQuery: query}
	entry.Timestamp = 0
	entry.Image = ""
	return s.Append(ctx, entry)
}

// Remove deletes the entries with the given timestamp. An unknown
// timestamp is a no-op.
func (s *Store) Remove(ctx context.Context, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.HistoryEntry, 0, len(entries))
	var removed []domain.HistoryEntry
	for _, e := range entries {
		if e.Timestamp == timestamp {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return nil
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.deletePhotos(ctx, removed)
	return nil
}

// Clear removes every entry and its photo.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.deletePhotos(ctx, entries)
	return nil
}

func (s *Store) Summary(ctx context.Context) (domain.HistorySummary, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return domain.HistorySummary{}, err
	}
	return domain.Summarize(entries, s.now()), nil
}

// ImageURI resolves an entry's photo key back into a data URI.
func (s *Store) ImageURI(ctx context.Context, entry domain.HistoryEntry) (string, error) {
	if entry.Image == "" {
		return "", nil
	}

	rc, mimeType, err := s.photos.Get(ctx, entry.Image)
	if err != nil {
		return "", fmt.Errorf("failed to load photo %q: %w", entry.Image, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Warn("failed to close photo", "key", entry.Image, "error", err)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read photo %q: %w", entry.Image, err)
	}
	return datauri.Encode(mimeType, data), nil
}

func freeTimestamp(entries []domain.HistoryEntry, ts int64) int64 {
	taken := make(map[int64]bool, len(entries))
	for _, e := range entries {
		taken[e.Timestamp] = true
	}
	for taken[ts] {
		ts++
	}
	return ts
}

// load must be called with mu held. Unparseable stored data is logged and
// treated as an empty history.
func (s *Store) load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if !ok {
		return []domain.HistoryEntry{}, nil
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("discarding unreadable history", "error", err)
		return []domain.HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(ctx, HistoryKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *Store) deletePhotos(ctx context.Context, entries []domain.HistoryEntry) {
	for _, e := range entries {
		if e.Image == "" {
			continue
		}
		err := s.photos.Delete(ctx, e.Image)
		if err != nil && !errors.Is(err, photostore.ErrNotFound) {
			s.logger.Warn("failed to delete history photo", "key", e.Image, "error", err)
		}
	}
}
