package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests, examples and the CLI. Each save
// gets a fresh uuid snapshot id unless the caller supplies one, and the ETag
// tracks the snapshot id.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	overrides Overrides
	meta      Meta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (Overrides, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return record.overrides.Clone(), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, overrides Overrides, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	saved := cloneMeta(meta)
	if saved.SnapshotID == "" {
		saved.SnapshotID = uuid.NewString()
	}
	saved.ETag = saved.SnapshotID
	if saved.UpdatedAt.IsZero() {
		saved.UpdatedAt = s.now().UTC()
	}
	if overrides == nil {
		overrides = Overrides{}
	}

	s.mu.Lock()
	if s.records == nil {
		s.records = map[string]memoryRecord{}
	}
	s.records[key] = memoryRecord{overrides: overrides.Clone(), meta: saved}
	s.mu.Unlock()
	return cloneMeta(saved), nil
}
