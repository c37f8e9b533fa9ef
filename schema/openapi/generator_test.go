package openapi_test

import (
	"testing"

	variant "github.com/goliatone/go-variant"
	openapi "github.com/goliatone/go-variant/schema/openapi"
)

type catPayload struct {
	Meow  string `json:"meow"`
	Lives int    `json:"lives"`
}

type fishPayload struct {
	Depth float64 `json:"depth"`
}

func asMap(t *testing.T, value any, label string) map[string]any {
	t.Helper()
	m, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected %s map, got %T", label, value)
	}
	return m
}

func TestOpenAPIGeneratorIntegration(t *testing.T) {
	set := variant.MustTagSet("cat", "fish")
	registry, err := variant.NewRegistry[string, any](set)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if err := registry.Register("cat", catPayload{Meow: "Did you call me?", Lives: 9}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("fish", fishPayload{Depth: 4.2}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resolver := variant.New(registry, openapi.Option(
		openapi.WithRootComponent("Animal"),
		openapi.WithDiscriminator("kind"),
	))

	doc, err := resolver.Schema()
	if err != nil {
		t.Fatalf("Schema returned error: %v", err)
	}
	if doc.Format != variant.SchemaFormatOpenAPI {
		t.Fatalf("expected format %q, got %q", variant.SchemaFormatOpenAPI, doc.Format)
	}

	document := asMap(t, doc.Document, "document")
	if document["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version: %v", document["openapi"])
	}
	components := asMap(t, document["components"], "components")
	schemas := asMap(t, components["schemas"], "schemas")

	root := asMap(t, schemas["Animal"], "root component")
	oneOf, ok := root["oneOf"].([]any)
	if !ok || len(oneOf) != 2 {
		t.Fatalf("expected two union branches, got %v", root["oneOf"])
	}
	discriminator := asMap(t, root["discriminator"], "discriminator")
	if discriminator["propertyName"] != "kind" {
		t.Fatalf("unexpected discriminator property: %v", discriminator["propertyName"])
	}
	mapping := asMap(t, discriminator["mapping"], "mapping")
	if mapping["cat"] != "#/components/schemas/AnimalCat" {
		t.Fatalf("unexpected cat mapping: %v", mapping["cat"])
	}
	if mapping["fish"] != "#/components/schemas/AnimalFish" {
		t.Fatalf("unexpected fish mapping: %v", mapping["fish"])
	}

	cat := asMap(t, schemas["AnimalCat"], "cat component")
	properties := asMap(t, cat["properties"], "cat properties")
	meow := asMap(t, properties["meow"], "meow property")
	if meow["type"] != "string" {
		t.Fatalf("expected meow to be string, got %v", meow["type"])
	}
	lives := asMap(t, properties["lives"], "lives property")
	if lives["type"] != "integer" {
		t.Fatalf("expected lives to be integer, got %v", lives["type"])
	}

	fish := asMap(t, schemas["AnimalFish"], "fish component")
	depth := asMap(t, asMap(t, fish["properties"], "fish properties")["depth"], "depth property")
	if depth["type"] != "number" {
		t.Fatalf("expected depth to be number, got %v", depth["type"])
	}
}

func TestOpenAPIGeneratorEmptySnapshot(t *testing.T) {
	generator := openapi.NewGenerator()
	doc, err := generator.Generate(nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	document, ok := doc.Document.(map[string]any)
	if !ok {
		t.Fatalf("expected document map, got %T", doc.Document)
	}
	components := document["components"].(map[string]any)
	schemas := components["schemas"].(map[string]any)
	root, ok := schemas["Variant"].(map[string]any)
	if !ok {
		t.Fatalf("expected root component, got %v", schemas)
	}
	if _, exists := root["x-tags"]; exists {
		t.Fatalf("expected no x-tags for empty snapshot")
	}
}

func TestOpenAPIGeneratorInfoOverrides(t *testing.T) {
	generator := openapi.NewGenerator(
		openapi.WithOpenAPIVersion("3.1.0"),
		openapi.WithInfo("Animal Registry", "2.0.0", "Tagged union of animal payloads"),
	)
	doc, err := generator.Generate(map[string]any{"cat": catPayload{}})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	document := doc.Document.(map[string]any)
	if document["openapi"] != "3.1.0" {
		t.Fatalf("unexpected version: %v", document["openapi"])
	}
	info := document["info"].(map[string]any)
	if info["title"] != "Animal Registry" || info["version"] != "2.0.0" {
		t.Fatalf("unexpected info: %v", info)
	}
	if info["description"] != "Tagged union of animal payloads" {
		t.Fatalf("unexpected description: %v", info["description"])
	}
}
