package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store backed by a map keyed on Ref.Identifier().
// Intended for tests and short-lived tooling.
type MemoryStore[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[string]memoryRecord[K, V]
}

type memoryRecord[K comparable, V any] struct {
	snapshot map[K]V
	meta     Meta
}

func NewMemoryStore[K comparable, V any]() *MemoryStore[K, V] {
	return &MemoryStore[K, V]{records: map[string]memoryRecord[K, V]{}}
}

func (s *MemoryStore[K, V]) Load(_ context.Context, ref Ref) (map[K]V, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, Meta{}, false, nil
	}
	return cloneSnapshot(record.snapshot), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore[K, V]) Save(_ context.Context, ref Ref, snapshot map[K]V, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := cloneMeta(meta)
	saved.UpdatedAt = time.Now().UTC()
	saved.ETag = fmt.Sprintf("etag-%d", saved.UpdatedAt.UnixNano())
	if saved.SnapshotID == "" {
		saved.SnapshotID = fmt.Sprintf("%s@%d", key, saved.UpdatedAt.UnixNano())
	}

	s.records[key] = memoryRecord[K, V]{
		snapshot: cloneSnapshot(snapshot),
		meta:     cloneMeta(saved),
	}
	return saved, nil
}

func cloneSnapshot[K comparable, V any](snapshot map[K]V) map[K]V {
	out := make(map[K]V, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra != nil {
		out.Extra = make(map[string]string, len(meta.Extra))
		for k, v := range meta.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
