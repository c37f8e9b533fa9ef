package variant

import (
	"errors"
	"fmt"
	"sort"

	layering "github.com/goliatone/go-variant/layering"
)

// Scope models a named precedence bucket (system, tenant, user, etc.). Higher
// priority values represent stronger layers.
type Scope struct {
	Name     string
	Label    string
	Priority int
	Metadata map[string]any
}

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label    string
	metadata map[string]any
}

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// WithScopeMetadata attaches arbitrary metadata to the scope. The map is copied
// so the resulting Scope remains immutable even if the caller mutates their
// reference.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(cfg *scopeConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope with the supplied configuration. Validation is
// deferred to Stack construction so callers can assemble scopes before deciding
// precedence.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return Scope{
		Name:     name,
		Label:    cfg.label,
		Priority: priority,
		Metadata: copyMetadata(cfg.metadata),
	}
}

// clone returns a copy of s, ensuring Metadata is detached from the original.
func (s Scope) clone() Scope {
	return Scope{
		Name:     s.Name,
		Label:    s.Label,
		Priority: s.Priority,
		Metadata: copyMetadata(s.Metadata),
	}
}

func (s Scope) isZero() bool {
	return s.Name == "" && s.Label == "" && s.Priority == 0 && len(s.Metadata) == 0
}

// Layer pairs a scope definition with the registry snapshot captured for that
// scope. Snapshots are partial: tags a scope does not configure are resolved
// by weaker layers or the final fallback.
type Layer[K comparable, V any] struct {
	Scope      Scope
	Snapshot   map[K]V
	SnapshotID string
}

// LayerOption configures optional metadata for a layer.
type LayerOption[K comparable, V any] func(*Layer[K, V])

// WithSnapshotID sets the snapshot identifier used for auditing.
func WithSnapshotID[K comparable, V any](id string) LayerOption[K, V] {
	return func(layer *Layer[K, V]) {
		layer.SnapshotID = id
	}
}

// NewLayer constructs a Layer with immutable copies of both the scope metadata
// and snapshot payload.
func NewLayer[K comparable, V any](scope Scope, snapshot map[K]V, opts ...LayerOption[K, V]) Layer[K, V] {
	layer := Layer[K, V]{
		Scope:    scope.clone(),
		Snapshot: layering.Clone(snapshot),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&layer)
	}
	return layer
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("scope: name must be provided")
	// ErrDuplicateScopeName indicates Stack construction received multiple
	// layers with the same scope name.
	ErrDuplicateScopeName = errors.New("scope: names must be unique")
	// ErrPriorityOrder indicates Stack construction detected duplicate or
	// unsorted priorities.
	ErrPriorityOrder = errors.New("scope: priorities must be strictly ordered")
)

// Stack represents an immutable, scope-aware layering configuration ordered
// from strongest to weakest precedence.
type Stack[K comparable, V any] struct {
	layers []Layer[K, V]
}

// NewStack validates and sorts the supplied layers so that the strongest scope
// (highest priority) is first. Layers and their snapshots are deep copied to
// guarantee read-only safety after construction.
func NewStack[K comparable, V any](layers ...Layer[K, V]) (*Stack[K, V], error) {
	if len(layers) == 0 {
		return &Stack[K, V]{}, nil
	}

	seenNames := make(map[string]struct{}, len(layers))
	copied := make([]Layer[K, V], len(layers))
	for i, layer := range layers {
		layer := cloneLayer(layer)
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seenNames[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seenNames[layer.Scope.Name] = struct{}{}
		copied[i] = layer
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Scope.Priority == copied[j].Scope.Priority {
			return copied[i].Scope.Name < copied[j].Scope.Name
		}
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})

	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority <= copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}

	return &Stack[K, V]{layers: copied}, nil
}

// Layers returns a defensive copy of the underlying layers to preserve
// immutability guarantees.
func (s *Stack[K, V]) Layers() []Layer[K, V] {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer[K, V], len(s.layers))
	for i := range s.layers {
		out[i] = cloneLayer(s.layers[i])
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack[K, V]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge resolves the stack into a Resolver over set whose registry holds, per
// tag, the strongest layer's value, retaining provenance metadata for each
// contributing layer. The provided ResolverOption arguments apply to the
// resulting resolver.
func (s *Stack[K, V]) Merge(set *TagSet[K], opts ...ResolverOption) (*Resolver[K, V], error) {
	if s == nil || len(s.layers) == 0 {
		return nil, fmt.Errorf("scope: stack must include at least one layer")
	}
	snapshots := make([]map[K]V, len(s.layers))
	layerMeta := make([]layerSnapshot, len(s.layers))
	for i := range s.layers {
		snapshots[i] = layering.Clone(s.layers[i].Snapshot)
		layerMeta[i] = layerSnapshot{
			Scope:      s.layers[i].Scope.clone(),
			Snapshot:   layering.Clone(s.layers[i].Snapshot),
			SnapshotID: s.layers[i].SnapshotID,
		}
	}
	merged := layering.MergeMaps(snapshots...)
	registry, err := NewRegistry[K, V](set)
	if err != nil {
		return nil, err
	}
	for tag, value := range merged {
		if err := registry.Replace(tag, value); err != nil {
			return nil, err
		}
	}
	resolver := New(registry, opts...)
	resolver.attachLayers(layerMeta)
	return resolver, nil
}

func cloneLayer[K comparable, V any](layer Layer[K, V]) Layer[K, V] {
	return Layer[K, V]{
		Scope:      layer.Scope.clone(),
		Snapshot:   layering.Clone(layer.Snapshot),
		SnapshotID: layer.SnapshotID,
	}
}

type layerSnapshot struct {
	Scope      Scope
	Snapshot   any
	SnapshotID string
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
