package variant

// Option models an explicit present/absent lookup result. A present zero
// value (empty slice, empty string) is still present; absence is only ever
// signalled by None.
type Option[V any] struct {
	value   V
	present bool
}

// Some wraps a present value.
func Some[V any](value V) Option[V] {
	return Option[V]{value: value, present: true}
}

// None returns the absent Option for V.
func None[V any]() Option[V] {
	return Option[V]{}
}

// IsSome reports whether the option holds a value.
func (o Option[V]) IsSome() bool { return o.present }

// IsNone reports whether the option is absent.
func (o Option[V]) IsNone() bool { return !o.present }

// Get returns the value and whether it was present.
func (o Option[V]) Get() (V, bool) {
	return o.value, o.present
}

// Or returns the value when present, otherwise fallback. The fallback is
// typed V, so the result is always the specific value type regardless of
// which branch is taken.
func (o Option[V]) Or(fallback V) V {
	if o.present {
		return o.value
	}
	return fallback
}

// OrElse returns the value when present, otherwise the result of fn.
func (o Option[V]) OrElse(fn func() V) V {
	if o.present {
		return o.value
	}
	if fn == nil {
		var zero V
		return zero
	}
	return fn()
}

// OrZero returns the value when present, otherwise the zero value of V.
func (o Option[V]) OrZero() V {
	return o.value
}

// MapOption applies fn to the value when present.
func MapOption[V, U any](o Option[V], fn func(V) U) Option[U] {
	if !o.present {
		return None[U]()
	}
	return Some(fn(o.value))
}
