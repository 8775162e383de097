package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store holds the current candidate snapshot. A snapshot is immutable:
// Reload replaces it wholesale and every derived view recomputes from the
// new value. Readers receive the underlying slice and must not mutate it.
type Store struct {
	loader *Loader
	logger *slog.Logger

	mu         sync.RWMutex
	candidates []Candidate
	loadedAt   time.Time

	group singleflight.Group
}

// NewStore creates an empty store backed by the given loader.
func NewStore(loader *Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		loader: loader,
		logger: logger.With(slog.String("component", "dataset_store")),
	}
}

// Reload fetches a fresh dataset and swaps it in. Concurrent calls are
// collapsed into a single fetch; every caller observes the same outcome.
// On failure the previous snapshot, if any, is kept.
func (s *Store) Reload(ctx context.Context) (int, error) {
	v, err, shared := s.group.Do("reload", func() (interface{}, error) {
		candidates, err := s.loader.Load(ctx)
		if err != nil {
			return 0, err
		}

		s.mu.Lock()
		s.candidates = candidates
		s.loadedAt = time.Now()
		s.mu.Unlock()

		return len(candidates), nil
	})
	if err != nil {
		return 0, err
	}
	if shared {
		s.logger.DebugContext(ctx, "reload shared with concurrent caller")
	}
	return v.(int), nil
}

// Snapshot returns the current candidate collection in source order. The
// slice is shared and read-only; callers that need a different order must
// copy, which the query engine does.
func (s *Store) Snapshot() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidates
}

// LoadedAt returns the time of the last successful load, zero before the
// first one.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Ready reports whether a dataset has been loaded.
func (s *Store) Ready() bool {
	return !s.LoadedAt().IsZero()
}
