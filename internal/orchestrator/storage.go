package orchestrator

import (
	"context"
	"sync"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/pkg/logging"
)

// DefaultHistorySize is the number of finished executions MemoryStorage keeps
// when no size is configured.
const DefaultHistorySize = 100

// ExecutionStorage defines the interface for keeping finished execution
// records.
type ExecutionStorage interface {
	// Store records a finished execution
	Store(ctx context.Context, record api.ExecutionRecord) error

	// Get retrieves a specific execution by ID
	Get(ctx context.Context, executionID string) (api.ExecutionRecord, error)

	// List returns the stored executions, newest first
	List(ctx context.Context) ([]api.ExecutionRecord, error)
}

// MemoryStorage is a bounded, process-local ExecutionStorage. Once the limit
// is reached the oldest record is evicted.
type MemoryStorage struct {
	mu      sync.RWMutex
	limit   int
	records []api.ExecutionRecord // newest first
}

// NewMemoryStorage creates a storage that keeps at most limit records.
// A non-positive limit selects DefaultHistorySize.
func NewMemoryStorage(limit int) *MemoryStorage {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &MemoryStorage{limit: limit}
}

// Store prepends record, replacing an earlier record with the same ID.
func (s *MemoryStorage) Store(_ context.Context, record api.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]api.ExecutionRecord, 0, min(len(s.records)+1, s.limit))
	kept = append(kept, record)
	for _, r := range s.records {
		if len(kept) == s.limit {
			logging.Debug("ExecutionTracker", "History full, evicting execution %s", r.ExecutionID)
			break
		}
		if r.ExecutionID != record.ExecutionID {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

// Get retrieves a specific execution by ID.
func (s *MemoryStorage) Get(_ context.Context, executionID string) (api.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ExecutionID == executionID {
			return r, nil
		}
	}
	return api.ExecutionRecord{}, api.NewNotFoundError("execution", executionID)
}

// List returns a copy of the stored executions, newest first.
func (s *MemoryStorage) List(_ context.Context) ([]api.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.ExecutionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
