package variant

import "sync"

// ListRegistry specialises Registry for tags mapping to collections. An
// absent tag resolves to an empty slice of the element type, so callers
// always receive a sequence they can range over.
type ListRegistry[K comparable, E any] struct {
	mu       sync.Mutex
	registry *Registry[K, []E]
}

// NewListRegistry constructs an empty list registry over set.
func NewListRegistry[K comparable, E any](set *TagSet[K]) (*ListRegistry[K, E], error) {
	registry, err := NewRegistry[K, []E](set)
	if err != nil {
		return nil, err
	}
	return &ListRegistry[K, E]{registry: registry}, nil
}

// Append adds items to the collection stored under tag, creating it when the
// tag was previously absent. The read-modify-write runs under a single lock
// so concurrent appends to the same tag never drop items.
func (l *ListRegistry[K, E]) Append(tag K, items ...E) error {
	if l == nil {
		return ErrNilTagSet
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.registry.Lookup(tag).Get()
	if !ok {
		return l.registry.Replace(tag, append([]E(nil), items...))
	}
	return l.registry.Replace(tag, append(current, items...))
}

// Items returns the collection stored under tag, or an empty non-nil slice
// when the tag is absent. A stored empty slice is a present value and is
// returned as stored.
func (l *ListRegistry[K, E]) Items(tag K) []E {
	if l == nil {
		return []E{}
	}
	// The Option binding fixes the element type for this specific tag; the
	// empty-slice fallback then shares that type instead of widening it.
	entry := l.registry.Lookup(tag)
	return entry.Or([]E{})
}

// Lookup exposes the underlying explicit present/absent result.
func (l *ListRegistry[K, E]) Lookup(tag K) Option[[]E] {
	if l == nil {
		return None[[]E]()
	}
	return l.registry.Lookup(tag)
}

// Registry returns the backing registry for advanced use.
func (l *ListRegistry[K, E]) Registry() *Registry[K, []E] {
	if l == nil {
		return nil
	}
	return l.registry
}
