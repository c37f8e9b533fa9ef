package variant

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDescriptor describes a tag-prefixed path and the inferred type.
type FieldDescriptor struct {
	Path string
	Type string
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

// Schema generates a schema document for the resolver's registry snapshot.
// When scope schemas are enabled the contributing layers are listed alongside
// the descriptors.
func (r *Resolver[K, V]) Schema() (SchemaDocument, error) {
	if r == nil {
		return DefaultSchemaGenerator().Generate(nil)
	}
	doc, err := r.schemaGenerator().Generate(r.snapshotBinding())
	if err != nil {
		return SchemaDocument{}, err
	}
	if r.cfg.scopeSchema {
		doc.Scopes = r.schemaScopes()
	}
	return doc, nil
}

func (r *Resolver[K, V]) schemaScopes() []SchemaScope {
	if len(r.layers) == 0 {
		if r.cfg.scope.isZero() {
			return nil
		}
		return []SchemaScope{{
			Name:     r.cfg.scope.Name,
			Label:    r.cfg.scope.Label,
			Priority: r.cfg.scope.Priority,
			Metadata: copyMetadata(r.cfg.scope.Metadata),
		}}
	}
	scopes := make([]SchemaScope, 0, len(r.layers))
	for _, layer := range r.layers {
		scopes = append(scopes, SchemaScope{
			Name:       layer.Scope.Name,
			Label:      layer.Scope.Label,
			Priority:   layer.Scope.Priority,
			Metadata:   copyMetadata(layer.Scope.Metadata),
			SnapshotID: layer.SnapshotID,
		})
	}
	return scopes
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(value any) (SchemaDocument, error) {
	descriptors := deriveFieldDescriptors(value, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	if value == nil {
		return nil
	}

	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return []FieldDescriptor{{
				Path: prefix,
				Type: "map[string]any",
			}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			nextPrefix := joinPath(prefix, key)
			fields = append(fields, deriveFieldDescriptors(typed[key], nextPrefix)...)
		}
		return fields
	case []any:
		elementType := "any"
		if len(typed) > 0 {
			elementType = typeName(typed[0])
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: "[]" + elementType,
		}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: typeName(typed),
		}}
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
