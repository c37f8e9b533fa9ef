package variant

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-variant/internal/hydrate"
)

// Manifest maps tag names to raw registry payloads, as loaded from a JSON or
// YAML document. Tags missing from the manifest stay absent in the registry;
// they resolve through fallbacks at lookup time.
type Manifest map[string]map[string]any

// ParseManifestJSON decodes a JSON manifest document.
func ParseManifestJSON(data []byte) (Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("variant: parse JSON manifest: %w", err)
	}
	return manifest, nil
}

// ParseManifestYAML decodes a YAML manifest document.
func ParseManifestYAML(data []byte) (Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("variant: parse YAML manifest: %w", err)
	}
	return manifest, nil
}

// LoadManifest hydrates each manifest payload into V and registers it on a
// new registry over set. Tags outside the closed set are rejected rather than
// silently widening it.
func LoadManifest[V any](set *TagSet[string], manifest Manifest, scope string) (*Registry[string, V], error) {
	registry, err := NewRegistry[string, V](set)
	if err != nil {
		return nil, err
	}
	decoder := hydrate.NewDecoder[V]()
	// Register in set order so diagnostics are deterministic.
	for _, tag := range set.Tags() {
		payload, ok := manifest[tag]
		if !ok {
			continue
		}
		value, err := decoder.Decode(hydrate.Context{Tag: tag, Scope: scope}, payload)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(tag, value); err != nil {
			return nil, err
		}
	}
	for tag := range manifest {
		if !set.Contains(tag) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownTag, tag)
		}
	}
	return registry, nil
}
