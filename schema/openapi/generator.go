package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	variant "github.com/goliatone/go-variant"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a schema generator that renders a registry snapshot
// as an OpenAPI tagged union: one component schema per tag combined through
// oneOf with a discriminator.
func NewGenerator(opts ...GeneratorOption) variant.SchemaGenerator {
	return generator{config: applyGeneratorOptions(opts)}
}

// Option returns a ResolverOption that wires the OpenAPI schema generator
// into a Resolver.
func Option(opts ...GeneratorOption) variant.ResolverOption {
	return variant.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(value any) (variant.SchemaDocument, error) {
	snapshot, _ := value.(map[string]any)
	document, err := buildUnionDocument(g.config, snapshot)
	if err != nil {
		return variant.SchemaDocument{}, err
	}
	return variant.SchemaDocument{
		Format:   variant.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}

func buildPayloadSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"type": "null"}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		return buildPayloadSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Slice, reflect.Array:
		items := map[string]any{}
		if rv.Len() > 0 {
			child, err := buildPayloadSchema(rv.Index(0))
			if err != nil {
				return nil, err
			}
			items = child
		}
		return map[string]any{"type": "array", "items": items}, nil
	case reflect.Map:
		properties := map[string]any{}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, key)
			byKey[key] = iter.Value()
		}
		sort.Strings(keys)
		for _, key := range keys {
			child, err := buildPayloadSchema(byKey[key])
			if err != nil {
				return nil, err
			}
			properties[key] = child
		}
		return map[string]any{"type": "object", "properties": properties}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		properties := map[string]any{}
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			child, err := buildPayloadSchema(rv.Field(i))
			if err != nil {
				return nil, err
			}
			properties[fieldName(field)] = child
		}
		return map[string]any{"type": "object", "properties": properties}, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported payload kind %s", rv.Kind())
	}
}

func fieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name := tag
		for i := 0; i < len(tag); i++ {
			if tag[i] == ',' {
				name = tag[:i]
				break
			}
		}
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}
