package variant

import "reflect"

// New constructs a Resolver over the provided registry.
func New[K comparable, V any](registry *Registry[K, V], opts ...ResolverOption) *Resolver[K, V] {
	cfg := applyResolverOptions(opts)
	return &Resolver[K, V]{
		registry: registry,
		cfg:      cfg,
	}
}

// Load constructs a Resolver and runs validation on every registered value
// that supports it.
func Load[K comparable, V any](registry *Registry[K, V], opts ...ResolverOption) (*Resolver[K, V], error) {
	resolver := New(registry, opts...)
	if err := resolver.Validate(); err != nil {
		return nil, err
	}
	return resolver, nil
}

// ApplyDefaults returns value if it is already populated, otherwise it falls
// back to defaults.
func ApplyDefaults[T any](value T, defaults T) T {
	if isZero(value) {
		return defaults
	}
	return value
}

// WithEvaluator configures an evaluator on the Resolver.
func WithEvaluator(e Evaluator) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.evaluator = e
	}
}

// Registry returns the registry the resolver reads from.
func (r *Resolver[K, V]) Registry() *Registry[K, V] {
	if r == nil {
		return nil
	}
	return r.registry
}

// Validate invokes the Validate method on each registered value when present.
func (r *Resolver[K, V]) Validate() error {
	if r == nil || r.registry == nil {
		return nil
	}
	for _, tag := range r.registry.Tags() {
		value, ok := r.registry.Lookup(tag).Get()
		if !ok {
			continue
		}
		if err := validateValue(value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if rv := reflect.ValueOf(value); rv.Kind() != reflect.Pointer && rv.CanAddr() {
		if v, ok := rv.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	return nil
}

func isZero[T any](value T) bool {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return true
	}
	return rv.IsZero()
}
