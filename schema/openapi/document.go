package openapi

import (
	"fmt"
	"reflect"
	"sort"
)

// buildUnionDocument assembles the OpenAPI document for a registry snapshot.
// Every populated tag contributes a component schema named after the tag; the
// root component combines them through oneOf and maps each discriminator
// value back to its component.
func buildUnionDocument(config generatorConfig, snapshot map[string]any) (map[string]any, error) {
	tags := make([]string, 0, len(snapshot))
	for tag := range snapshot {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	schemas := map[string]any{}
	refs := make([]any, 0, len(tags))
	mapping := map[string]any{}
	for _, tag := range tags {
		component := componentName(config.rootComponent, tag)
		schema, err := buildPayloadSchema(reflect.ValueOf(snapshot[tag]))
		if err != nil {
			return nil, err
		}
		schemas[component] = schema
		ref := "#/components/schemas/" + component
		refs = append(refs, map[string]any{"$ref": ref})
		mapping[tag] = ref
	}

	root := map[string]any{
		"oneOf": refs,
		"discriminator": map[string]any{
			"propertyName": config.discriminator,
			"mapping":      mapping,
		},
	}
	if len(tags) > 0 {
		root["x-tags"] = append([]string{}, tags...)
	}
	schemas[config.rootComponent] = root

	document := map[string]any{
		"openapi": config.openAPIVersion,
		"info":    buildInfo(config),
		"components": map[string]any{
			"schemas": schemas,
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func buildInfo(config generatorConfig) map[string]any {
	info := map[string]any{
		"title":   config.info.Title,
		"version": config.info.Version,
	}
	if config.info.Description != "" {
		info["description"] = config.info.Description
	}
	return info
}

func componentName(root, tag string) string {
	if len(tag) == 0 {
		return root
	}
	head := tag[:1]
	if head >= "a" && head <= "z" {
		head = string(rune(tag[0]) - 'a' + 'A')
	}
	return root + head + tag[1:]
}

func validateDocument(document map[string]any) error {
	for _, key := range []string{"openapi", "info", "components"} {
		if _, ok := document[key]; !ok {
			return fmt.Errorf("openapi: document missing %q section", key)
		}
	}
	return nil
}
