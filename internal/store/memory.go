package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// MemoryRunStore is an in-memory RunStore guarded by a read-write
// mutex. Terminal runs older than the configured TTL are evicted by a
// janitor goroutine; in-flight runs are never evicted.
type MemoryRunStore struct {
	mu     sync.RWMutex
	runs   map[uuid.UUID]*domain.Run
	ttl    time.Duration
	logger *slog.Logger

	janitorStop chan struct{}
	janitorOnce sync.Once
}

// NewMemoryRunStore creates an empty in-memory run store. A zero ttl
// disables eviction entirely: records then survive for the process
// lifetime.
func NewMemoryRunStore(ttl time.Duration, logger *slog.Logger) *MemoryRunStore {
	return &MemoryRunStore{
		runs:        make(map[uuid.UUID]*domain.Run),
		ttl:         ttl,
		logger:      logger.With("component", "memory_run_store"),
		janitorStop: make(chan struct{}),
	}
}

// Create registers a new run record.
func (s *MemoryRunStore) Create(ctx context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}

	s.runs[run.ID] = run.Clone()
	s.logger.Debug("run created", "run_id", run.ID, "prompt_count", len(run.Prompts))
	return nil
}

// Get returns a snapshot of the run with the given ID.
func (s *MemoryRunStore) Get(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return run.Clone(), nil
}

// UpdateProgress sets the progress string of a processing run.
func (s *MemoryRunStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return run.SetProgress(progress)
}

// Complete transitions the run to completed with its final results.
func (s *MemoryRunStore) Complete(ctx context.Context, id uuid.UUID, results []*string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err := run.Complete(results); err != nil {
		return err
	}

	s.logger.Debug("run completed", "run_id", id)
	return nil
}

// Fail transitions the run to failed with the given reason.
func (s *MemoryRunStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err := run.Fail(reason); err != nil {
		return err
	}

	s.logger.Debug("run failed", "run_id", id, "reason", reason)
	return nil
}

// Delete removes the run record.
func (s *MemoryRunStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	delete(s.runs, id)
	return nil
}

// StartJanitor launches the background eviction loop, sweeping at the
// given interval. It is a no-op when eviction is disabled (zero ttl).
func (s *MemoryRunStore) StartJanitor(interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.janitorStop:
				return
			case <-ticker.C:
				evicted := s.evictExpired(time.Now().UTC())
				if evicted > 0 {
					s.logger.Info("evicted expired runs", "count", evicted)
				}
			}
		}
	}()
}

// StopJanitor stops the eviction loop. Safe to call more than once.
func (s *MemoryRunStore) StopJanitor() {
	s.janitorOnce.Do(func() {
		close(s.janitorStop)
	})
}

// evictExpired removes terminal runs whose last update is older than
// the TTL. Returns the number of records removed.
func (s *MemoryRunStore) evictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, run := range s.runs {
		if run.Terminal() && now.Sub(run.UpdatedAt) > s.ttl {
			delete(s.runs, id)
			evicted++
		}
	}

	return evicted
}
