package variant

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNilTagSet indicates a registry was constructed without a tag set.
	ErrNilTagSet = errors.New("variant: registry requires a tag set")
	// ErrUnknownTag indicates a tag outside the registry's closed set.
	ErrUnknownTag = errors.New("variant: tag not in set")
	// ErrDuplicateEntry indicates a tag was registered twice.
	ErrDuplicateEntry = errors.New("variant: tag already registered")
)

// Registry is a partial mapping from tags in a closed set to values. Tags may
// be omitted; omission is resolved by the fallback-taking accessors, never by
// an error or a runtime panic.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	set     *TagSet[K]
	entries map[K]V
}

// NewRegistry constructs an empty registry over set.
func NewRegistry[K comparable, V any](set *TagSet[K]) (*Registry[K, V], error) {
	if set == nil {
		return nil, ErrNilTagSet
	}
	return &Registry[K, V]{
		set:     set,
		entries: make(map[K]V),
	}, nil
}

// Register stores value under tag, guarding against unknown tags and
// duplicates.
func (r *Registry[K, V]) Register(tag K, value V) error {
	if r == nil {
		return fmt.Errorf("variant: registry is nil")
	}
	if !r.set.Contains(tag) {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[K]V)
	}
	if _, exists := r.entries[tag]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateEntry, tag)
	}
	r.entries[tag] = value
	return nil
}

// Replace stores value under tag, overwriting any previous entry.
func (r *Registry[K, V]) Replace(tag K, value V) error {
	if r == nil {
		return fmt.Errorf("variant: registry is nil")
	}
	if !r.set.Contains(tag) {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[K]V)
	}
	r.entries[tag] = value
	return nil
}

// Lookup returns the entry for tag as an explicit Option. The intermediate
// Option binding restates the value type for the queried tag before any
// fallback applies, which is what keeps the fallback-taking accessors typed
// to V rather than to "some value or absent".
func (r *Registry[K, V]) Lookup(tag K) Option[V] {
	if r == nil {
		return None[V]()
	}
	r.mu.RLock()
	value, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return None[V]()
	}
	return Some(value)
}

// GetOr returns the stored value for tag, or fallback when the tag is
// absent. Stored values are returned as registered, without copying.
func (r *Registry[K, V]) GetOr(tag K, fallback V) V {
	return r.Lookup(tag).Or(fallback)
}

// GetOrZero returns the stored value for tag, or the zero value of V.
func (r *Registry[K, V]) GetOrZero(tag K) V {
	return r.Lookup(tag).OrZero()
}

// GetOrElse returns the stored value for tag, or the result of fallback
// applied to the tag itself. Making the fallback generic over the tag lets a
// single rule produce per-tag defaults without widening the return type.
func (r *Registry[K, V]) GetOrElse(tag K, fallback func(K) V) V {
	if value, ok := r.Lookup(tag).Get(); ok {
		return value
	}
	if fallback == nil {
		var zero V
		return zero
	}
	return fallback(tag)
}

// Set returns the closed tag set the registry is bound to.
func (r *Registry[K, V]) Set() *TagSet[K] {
	if r == nil {
		return nil
	}
	return r.set
}

// Len returns the number of populated tags.
func (r *Registry[K, V]) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Tags returns the populated tags in set declaration order.
func (r *Registry[K, V]) Tags() []K {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]K, 0, len(r.entries))
	for _, tag := range r.set.Tags() {
		if _, ok := r.entries[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Missing returns the unpopulated tags in set declaration order.
func (r *Registry[K, V]) Missing() []K {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	missing := make([]K, 0, r.set.Len()-len(r.entries))
	for _, tag := range r.set.Tags() {
		if _, ok := r.entries[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	return missing
}

// Snapshot returns a shallow copy of the populated entries.
func (r *Registry[K, V]) Snapshot() map[K]V {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[K]V, len(r.entries))
	for tag, value := range r.entries {
		snapshot[tag] = value
	}
	return snapshot
}

// Clone returns a shallow copy of the registry bound to the same set.
func (r *Registry[K, V]) Clone() *Registry[K, V] {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Registry[K, V]{
		set:     r.set,
		entries: make(map[K]V, len(r.entries)),
	}
	for tag, value := range r.entries {
		clone.entries[tag] = value
	}
	return clone
}
