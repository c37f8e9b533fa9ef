package variant

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoHandler indicates dispatch found neither a handler nor a fallback.
	ErrNoHandler = errors.New("variant: no handler registered and no fallback configured")
	// ErrPayloadMismatch indicates a typed handler received a payload of a
	// different variant than it was registered for.
	ErrPayloadMismatch = errors.New("variant: payload does not match handler variant")
)

// Handler processes a payload for one variant.
type Handler[In, Out any] func(In) (Out, error)

// FallbackHandler produces a result for tags without a registered handler.
// It receives the queried tag, so a single fallback can yield one shared
// default or branch into per-tag defaults.
type FallbackHandler[K comparable, In, Out any] func(K, In) (Out, error)

// HandlerRegistryOption configures a HandlerRegistry at construction.
type HandlerRegistryOption[K comparable, In, Out any] func(*HandlerRegistry[K, In, Out])

// WithFallbackHandler sets the fallback used for unregistered tags.
func WithFallbackHandler[K comparable, In, Out any](fallback FallbackHandler[K, In, Out]) HandlerRegistryOption[K, In, Out] {
	return func(r *HandlerRegistry[K, In, Out]) {
		r.fallback = fallback
	}
}

// HandlerRegistry stores per-tag handlers over a closed tag set, resolving
// unregistered tags through a fallback that is generic over the tag itself.
type HandlerRegistry[K comparable, In, Out any] struct {
	mu       sync.RWMutex
	set      *TagSet[K]
	handlers map[K]Handler[In, Out]
	fallback FallbackHandler[K, In, Out]
}

// NewHandlerRegistry constructs an empty handler registry over set.
func NewHandlerRegistry[K comparable, In, Out any](set *TagSet[K], opts ...HandlerRegistryOption[K, In, Out]) (*HandlerRegistry[K, In, Out], error) {
	if set == nil {
		return nil, ErrNilTagSet
	}
	registry := &HandlerRegistry[K, In, Out]{
		set:      set,
		handlers: make(map[K]Handler[In, Out]),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(registry)
		}
	}
	return registry, nil
}

// Register stores handler under tag, guarding against unknown tags, nil
// handlers and duplicates.
func (r *HandlerRegistry[K, In, Out]) Register(tag K, handler Handler[In, Out]) error {
	if r == nil {
		return fmt.Errorf("variant: handler registry is nil")
	}
	if handler == nil {
		return fmt.Errorf("variant: handler for %v is nil", tag)
	}
	if !r.set.Contains(tag) {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[K]Handler[In, Out])
	}
	if _, exists := r.handlers[tag]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateEntry, tag)
	}
	r.handlers[tag] = handler
	return nil
}

// Lookup returns the registered handler for tag as an explicit Option,
// without consulting the fallback.
func (r *HandlerRegistry[K, In, Out]) Lookup(tag K) Option[Handler[In, Out]] {
	if r == nil {
		return None[Handler[In, Out]]()
	}
	r.mu.RLock()
	handler, ok := r.handlers[tag]
	r.mu.RUnlock()
	if !ok {
		return None[Handler[In, Out]]()
	}
	return Some(handler)
}

// Resolve returns the handler for tag, or the configured fallback bound to
// that tag. Binding the tag here is what reconciles a shared fallback with
// the per-tag handler type: the result is always a Handler for this tag.
func (r *HandlerRegistry[K, In, Out]) Resolve(tag K) (Handler[In, Out], error) {
	if r == nil {
		return nil, fmt.Errorf("variant: handler registry is nil")
	}
	if !r.set.Contains(tag) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	if handler, ok := r.Lookup(tag).Get(); ok {
		return handler, nil
	}
	r.mu.RLock()
	fallback := r.fallback
	r.mu.RUnlock()
	if fallback == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHandler, tag)
	}
	return func(in In) (Out, error) {
		return fallback(tag, in)
	}, nil
}

// Dispatch resolves the handler for tag and invokes it with in.
func (r *HandlerRegistry[K, In, Out]) Dispatch(tag K, in In) (Out, error) {
	handler, err := r.Resolve(tag)
	if err != nil {
		var zero Out
		return zero, err
	}
	return handler(in)
}

// Set returns the closed tag set the registry is bound to.
func (r *HandlerRegistry[K, In, Out]) Set() *TagSet[K] {
	if r == nil {
		return nil
	}
	return r.set
}

// Tags returns tags with registered handlers in set declaration order.
func (r *HandlerRegistry[K, In, Out]) Tags() []K {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]K, 0, len(r.handlers))
	for _, tag := range r.set.Tags() {
		if _, ok := r.handlers[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// RegisterTyped registers a handler written against the concrete payload
// type P for one variant. The adapter narrows the shared payload type at the
// registry boundary with an explicit assertion; a payload of any other
// variant fails with ErrPayloadMismatch instead of being silently widened.
func RegisterTyped[K comparable, In, Out, P any](r *HandlerRegistry[K, In, Out], tag K, handler func(P) (Out, error)) error {
	if handler == nil {
		return fmt.Errorf("variant: handler for %v is nil", tag)
	}
	return r.Register(tag, func(in In) (Out, error) {
		payload, ok := any(in).(P)
		if !ok {
			var zero Out
			return zero, fmt.Errorf("%w: tag %v got %T", ErrPayloadMismatch, tag, in)
		}
		return handler(payload)
	})
}
