package variant

import "testing"

func descriptorsByPath(t *testing.T, doc SchemaDocument) map[string]string {
	t.Helper()
	descriptors, ok := doc.Document.([]FieldDescriptor)
	if !ok {
		t.Fatalf("expected descriptor document, got %T", doc.Document)
	}
	byPath := make(map[string]string, len(descriptors))
	for _, d := range descriptors {
		byPath[d.Path] = d.Type
	}
	return byPath
}

func TestSchemaDescribesRegistrySnapshot(t *testing.T) {
	registry, err := NewRegistry[animalKind, map[string]any](animalKinds(t))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if err := registry.Register(kindCat, map[string]any{
		"meow":  "Did you call me?",
		"lives": 9,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	doc, err := New(registry).Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if doc.Format != SchemaFormatDescriptors {
		t.Fatalf("unexpected format: %q", doc.Format)
	}

	byPath := descriptorsByPath(t, doc)
	if got := byPath["cat.meow"]; got != "string" {
		t.Fatalf("unexpected type for cat.meow: %q", got)
	}
	if got := byPath["cat.lives"]; got != "int" {
		t.Fatalf("unexpected type for cat.lives: %q", got)
	}
	if _, ok := byPath["fish"]; ok {
		t.Fatalf("absent tag must not appear in the schema")
	}
}

func TestSchemaIncludesScopesWhenEnabled(t *testing.T) {
	set := channelKinds(t)
	stack, err := NewStack(
		NewLayer(NewScope("system", ScopePrioritySystem, WithScopeLabel("System Defaults")), map[channelKind]string{
			channelEmail: "smtp",
		}, WithSnapshotID[channelKind, string]("snap-1")),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	resolver, err := stack.Merge(set, WithScopeSchema(true))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	doc, err := resolver.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if len(doc.Scopes) != 1 {
		t.Fatalf("expected one scope entry, got %d", len(doc.Scopes))
	}
	scope := doc.Scopes[0]
	if scope.Name != "system" || scope.Label != "System Defaults" || scope.SnapshotID != "snap-1" {
		t.Fatalf("unexpected scope entry: %+v", scope)
	}
}

type staticSchemaGenerator struct {
	doc SchemaDocument
}

func (g staticSchemaGenerator) Generate(any) (SchemaDocument, error) {
	return g.doc, nil
}

func TestSchemaUsesConfiguredGenerator(t *testing.T) {
	custom := staticSchemaGenerator{doc: SchemaDocument{
		Format:   SchemaFormat("custom"),
		Document: "ok",
	}}
	doc, err := New(newGreetingRegistry(t), WithSchemaGenerator(custom)).Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if doc.Format != SchemaFormat("custom") || doc.Document != "ok" {
		t.Fatalf("expected custom generator output, got %+v", doc)
	}
}
