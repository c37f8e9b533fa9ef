package variant

import layering "github.com/goliatone/go-variant/layering"

// LayerWith merges snapshots ordered strongest to weakest with the current
// registry contents as the fallback, returning a new resolver over the same
// tag set with the merged entries.
func (r *Resolver[K, V]) LayerWith(snapshots ...map[K]V) *Resolver[K, V] {
	if r == nil || r.registry == nil {
		return r
	}
	combined := make([]map[K]V, 0, len(snapshots)+1)
	combined = append(combined, snapshots...)
	combined = append(combined, r.registry.Snapshot())
	merged := layering.MergeMaps(combined...)

	registry, err := NewRegistry[K, V](r.registry.Set())
	if err != nil {
		return r
	}
	for tag, value := range merged {
		// Unknown tags in a caller-supplied snapshot are skipped rather than
		// widening the closed set.
		_ = registry.Replace(tag, value)
	}
	return &Resolver[K, V]{
		registry: registry,
		cfg:      r.cfg,
		layers:   r.layers,
	}
}
