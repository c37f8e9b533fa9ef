package variant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-variant/pkg/activity"
)

var (
	// ErrNoDefaultRule indicates no default rule expression was configured.
	ErrNoDefaultRule = errors.New("variant: default rule not configured")
	// ErrDefaultType indicates an evaluated default did not match the
	// registry's value type. This is the one place a dynamic result is
	// asserted back to the static value type.
	ErrDefaultType = errors.New("variant: default rule result type mismatch")
)

// Lookup returns the registry entry for tag as an explicit Option, recording
// the outcome with the configured lookup logger and activity hooks.
func (r *Resolver[K, V]) Lookup(tag K) Option[V] {
	if r == nil || r.registry == nil {
		return None[V]()
	}
	start := time.Now()
	entry := r.registry.Lookup(tag)
	r.observeLookup(tag, entry.IsSome(), fallbackKindNone, time.Since(start))
	return entry
}

// GetOr returns the registry entry for tag, or fallback when absent. The
// result is always typed V.
func (r *Resolver[K, V]) GetOr(tag K, fallback V) V {
	if r == nil || r.registry == nil {
		return fallback
	}
	start := time.Now()
	entry := r.registry.Lookup(tag)
	kind := fallbackKindNone
	if entry.IsNone() {
		kind = fallbackKindValue
	}
	r.observeLookup(tag, entry.IsSome(), kind, time.Since(start))
	return entry.Or(fallback)
}

// GetOrZero returns the registry entry for tag, or the zero value of V when
// absent.
func (r *Resolver[K, V]) GetOrZero(tag K) V {
	var zero V
	if r == nil || r.registry == nil {
		return zero
	}
	start := time.Now()
	entry := r.registry.Lookup(tag)
	kind := fallbackKindNone
	if entry.IsNone() {
		kind = fallbackKindValue
	}
	r.observeLookup(tag, entry.IsSome(), kind, time.Since(start))
	return entry.OrZero()
}

// GetOrElse returns the registry entry for tag, or the fallback rule applied
// to the tag itself when absent.
func (r *Resolver[K, V]) GetOrElse(tag K, fallback func(K) V) V {
	if r == nil || r.registry == nil {
		if fallback == nil {
			var zero V
			return zero
		}
		return fallback(tag)
	}
	start := time.Now()
	entry := r.registry.Lookup(tag)
	kind := fallbackKindNone
	if entry.IsNone() {
		kind = fallbackKindRule
	}
	r.observeLookup(tag, entry.IsSome(), kind, time.Since(start))
	if value, ok := entry.Get(); ok {
		return value
	}
	if fallback == nil {
		var zero V
		return zero
	}
	return fallback(tag)
}

// ResolveDefault evaluates the configured default rule for tag and returns
// the raw evaluator result.
func (r *Resolver[K, V]) ResolveDefault(tag K) (Response[any], error) {
	if r == nil {
		return Response[any]{}, ErrNoDefaultRule
	}
	rule := r.cfg.defaultRule
	if rule == "" {
		return Response[any]{}, ErrNoDefaultRule
	}
	present := false
	if r.registry != nil {
		present = r.registry.Lookup(tag).IsSome()
	}
	ctx := RuleContext{
		Tag:      tag,
		Present:  present,
		Snapshot: r.snapshotBinding(),
	}
	return r.EvaluateWith(ctx, rule)
}

// GetOrEval returns the registry entry for tag, or the configured default
// rule's result asserted to the value type. The assertion is the documented
// trade-off: a rule result is dynamic, so a mismatch surfaces as
// ErrDefaultType rather than a compile-time diagnostic.
func (r *Resolver[K, V]) GetOrEval(tag K) (V, error) {
	var zero V
	if r == nil || r.registry == nil {
		return zero, ErrNoDefaultRule
	}
	start := time.Now()
	entry := r.registry.Lookup(tag)
	if value, ok := entry.Get(); ok {
		r.observeLookup(tag, true, fallbackKindNone, time.Since(start))
		return value, nil
	}
	resp, err := r.ResolveDefault(tag)
	if err != nil {
		return zero, err
	}
	value, ok := resp.Value.(V)
	if !ok {
		return zero, fmt.Errorf("%w: tag %v got %T", ErrDefaultType, tag, resp.Value)
	}
	r.observeLookup(tag, false, fallbackKindEval, time.Since(start))
	return value, nil
}

// Explain returns the provenance of a lookup for tag across the layers that
// produced the effective registry. Resolvers built without a stack report a
// single synthetic layer.
func (r *Resolver[K, V]) Explain(tag K) Trace {
	trace := Trace{Tag: fmt.Sprint(tag)}
	if r == nil {
		return trace
	}
	if len(r.layers) == 0 {
		if r.registry == nil {
			return trace
		}
		value, found := r.registry.Lookup(tag).Get()
		entry := Provenance{
			Scope: Scope{Name: "registry"},
			Tag:   trace.Tag,
			Found: found,
		}
		if found {
			entry.Value = value
		}
		trace.Layers = append(trace.Layers, entry)
		return trace
	}
	for _, layer := range r.layers {
		entry := Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Tag:        trace.Tag,
		}
		if snapshot, ok := layer.Snapshot.(map[K]V); ok {
			if value, found := snapshot[tag]; found {
				entry.Found = true
				entry.Value = value
			}
		}
		trace.Layers = append(trace.Layers, entry)
	}
	return trace
}

type fallbackKind string

const (
	fallbackKindNone  fallbackKind = ""
	fallbackKindValue fallbackKind = "value"
	fallbackKindRule  fallbackKind = "rule"
	fallbackKindEval  fallbackKind = "eval"
)

func (r *Resolver[K, V]) observeLookup(tag K, found bool, kind fallbackKind, duration time.Duration) {
	event := LookupLogEvent{
		Tag:      fmt.Sprint(tag),
		Scope:    r.cfg.scope.Name,
		Found:    found,
		Fallback: string(kind),
		Duration: duration,
	}
	r.lookupLogger().LogLookup(event)
	r.emitLookupActivity(event)
}

func (r *Resolver[K, V]) emitLookupActivity(event LookupLogEvent) {
	hooks := r.cfg.activityHooks
	if !hooks.Enabled() {
		return
	}
	input := activity.RegistryEventInput{
		Tag:          event.Tag,
		Found:        event.Found,
		FallbackKind: event.Fallback,
		Scope: activity.ScopeContext{
			Name:     r.cfg.scope.Name,
			Label:    r.cfg.scope.Label,
			Priority: r.cfg.scope.Priority,
			Metadata: copyMetadata(r.cfg.scope.Metadata),
		},
	}
	var built activity.Event
	if event.Found {
		built = activity.BuildRegistryHitEvent(input)
	} else {
		built = activity.BuildRegistryFallbackEvent(input)
	}
	_ = hooks.Notify(context.Background(), built)
}

func (r *Resolver[K, V]) snapshotBinding() map[string]any {
	if r == nil || r.registry == nil {
		return map[string]any{}
	}
	snapshot := r.registry.Snapshot()
	binding := make(map[string]any, len(snapshot))
	for tag, value := range snapshot {
		binding[fmt.Sprint(tag)] = value
	}
	return binding
}
