package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	variant "github.com/goliatone/go-variant"
	"github.com/goliatone/go-variant/layering"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted snapshot for one registry domain.
type Ref struct {
	Domain string
	Scope  variant.Scope
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one registry snapshot for a single scope reference.
type Store[K comparable, V any] interface {
	Load(ctx context.Context, ref Ref) (snapshot map[K]V, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot map[K]V, meta Meta) (Meta, error)
}

// Resolver orchestrates scoped loads and merges them into a single variant
// resolver over Set.
type Resolver[K comparable, V any] struct {
	Store Store[K, V]
	Set   *variant.TagSet[K]
}

// Mutator edits a snapshot in place before it is validated and saved.
type Mutator[K comparable, V any] func(map[K]V) error

// Identifier composes the deterministic storage key for the referenced
// snapshot by mapping the scope onto a layering slug. Non-system scopes take
// their subject ID from scope metadata (`tenant_id`, `user_id`, ...).
func (r Ref) Identifier() (string, error) {
	level := layering.ParseScopeLevel(r.Scope.Name)
	if level == layering.ScopeLevelUnknown {
		return "", fmt.Errorf("unsupported scope name %q", r.Scope.Name)
	}
	slug := layering.Scope{Key: r.Domain, Level: level}
	if level != layering.ScopeLevelSystem {
		metadataKey := r.Scope.Name + "_id"
		id, _ := r.Scope.Metadata[metadataKey].(string)
		if id == "" {
			return "", fmt.Errorf("missing metadata key %q for scope %q", metadataKey, r.Scope.Name)
		}
		slug.ID = id
	}
	return slug.Identifier(), nil
}

// Resolve loads one snapshot per scope and merges them strongest-first into a
// resolver over the configured tag set. Scopes with no stored snapshot are
// skipped.
func (r Resolver[K, V]) Resolve(ctx context.Context, domain string, scopes ...variant.Scope) (*variant.Resolver[K, V], error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	if r.Set == nil {
		return nil, fmt.Errorf("state: tag set is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("state: domain is required")
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("state: at least one scope is required")
	}

	layers := make([]variant.Layer[K, V], 0, len(scopes))
	for _, scope := range scopes {
		snapshot, meta, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("state: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, variant.NewLayer(scope, snapshot, variant.WithSnapshotID[K, V](meta.SnapshotID)))
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("state: no layers found for domain %q", domain)
	}

	stack, err := variant.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("state: stack: %w", err)
	}
	return stack.Merge(r.Set, variant.WithScopeSchema(true))
}

// ResolveWithDefaults behaves like Resolve but appends the supplied defaults
// snapshot as the weakest layer under the reserved scope name "defaults".
func (r Resolver[K, V]) ResolveWithDefaults(ctx context.Context, domain string, defaults map[K]V, scopes ...variant.Scope) (*variant.Resolver[K, V], error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	if r.Set == nil {
		return nil, fmt.Errorf("state: tag set is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("state: domain is required")
	}

	prioritySet := make(map[int]struct{}, len(scopes)+1)
	minPriority := 0
	if len(scopes) > 0 {
		minPriority = scopes[0].Priority
	}
	for _, scope := range scopes {
		if scope.Name == "defaults" {
			return nil, fmt.Errorf("state: scope name %q is reserved", "defaults")
		}
		prioritySet[scope.Priority] = struct{}{}
		if scope.Priority < minPriority {
			minPriority = scope.Priority
		}
	}

	defaultsPriority := 0
	if len(scopes) > 0 {
		defaultsPriority = minPriority - 1
		for {
			if _, ok := prioritySet[defaultsPriority]; !ok {
				break
			}
			defaultsPriority--
		}
	}

	layers := make([]variant.Layer[K, V], 0, len(scopes)+1)
	for _, scope := range scopes {
		snapshot, meta, ok, err := r.Store.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("state: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, variant.NewLayer(scope, snapshot, variant.WithSnapshotID[K, V](meta.SnapshotID)))
	}

	defaultsScope := variant.NewScope("defaults", defaultsPriority, variant.WithScopeLabel("Defaults"))
	layers = append(layers, variant.NewLayer(defaultsScope, defaults))

	stack, err := variant.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("state: stack: %w", err)
	}
	return stack.Merge(r.Set, variant.WithScopeSchema(true))
}

// Mutate loads one snapshot, applies fn, validates the result against the tag
// set (and each value's Validate method, when present), then saves.
func (r Resolver[K, V]) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator[K, V]) (*variant.Resolver[K, V], Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if r.Set == nil {
		return nil, Meta{}, fmt.Errorf("state: tag set is required")
	}
	if ref.Domain == "" {
		return nil, Meta{}, fmt.Errorf("state: domain is required")
	}
	if ref.Scope.Name == "" {
		return nil, Meta{}, fmt.Errorf("state: scope name is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	if !ok {
		snapshot = map[K]V{}
		loadedMeta = Meta{}
	}
	if snapshot == nil {
		snapshot = map[K]V{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(snapshot); err != nil {
		return nil, loadedMeta, err
	}

	if err := r.validateSnapshot(snapshot); err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	savedMeta, err := r.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}

	layer := variant.NewLayer(ref.Scope, snapshot, variant.WithSnapshotID[K, V](savedMeta.SnapshotID))
	stack, err := variant.NewStack(layer)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: stack: %w", err)
	}
	resolver, err := stack.Merge(r.Set, variant.WithScopeSchema(true))
	if err != nil {
		return nil, loadedMeta, err
	}
	return resolver, savedMeta, nil
}

func (r Resolver[K, V]) validateSnapshot(snapshot map[K]V) error {
	registry, err := variant.NewRegistry[K, V](r.Set)
	if err != nil {
		return err
	}
	for tag, value := range snapshot {
		if err := registry.Register(tag, value); err != nil {
			return fmt.Errorf("state: %w", err)
		}
	}
	if _, err := variant.Load(registry); err != nil {
		return err
	}
	return nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
