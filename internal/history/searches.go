package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const (
	RecentSearchesKey = "recentFoodSearches"
	MaxRecentSearches = 10
)

// RecentSearches keeps the last typed food names, newest first and without
// duplicates.
type RecentSearches struct {
	mu     sync.Mutex
	kv     kvStore
	logger *slog.Logger
}

func NewRecentSearches(kv kvStore, logger *slog.Logger) *RecentSearches {
	return &RecentSearches{kv: kv, logger: logger}
}

// Add moves query to the front. Blank queries are ignored.
func (r *RecentSearches) Add(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return err
	}

	next := make([]string, 0, MaxRecentSearches)
	next = append(next, query)
	for _, q := range current {
		if q != query && len(next) < MaxRecentSearches {
			next = append(next, q)
		}
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}
	if err := r.kv.Set(ctx, RecentSearchesKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save recent searches: %w", err)
	}
	return nil
}

func (r *RecentSearches) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *RecentSearches) load(ctx context.Context) ([]string, error) {
	raw, ok, err := r.kv.Get(ctx, RecentSearchesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}
	if !ok {
		return []string{}, nil
	}

	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		r.logger.Warn("discarding unreadable recent searches", "error", err)
		return []string{}, nil
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}
