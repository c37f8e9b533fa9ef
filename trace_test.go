package variant

import (
	"testing"
)

func TestExplainWithoutLayersReportsRegistry(t *testing.T) {
	resolver := New(newGreetingRegistry(t))

	trace := resolver.Explain(kindCat)
	if trace.Tag != "cat" {
		t.Fatalf("unexpected trace tag: %q", trace.Tag)
	}
	if len(trace.Layers) != 1 {
		t.Fatalf("expected one synthetic layer, got %d", len(trace.Layers))
	}
	entry := trace.Layers[0]
	if entry.Scope.Name != "registry" || !entry.Found || entry.Value != "Did you call me?" {
		t.Fatalf("unexpected provenance: %+v", entry)
	}

	trace = resolver.Explain(kindFish)
	if trace.Layers[0].Found {
		t.Fatalf("expected absent tag to report Found=false")
	}
}

func TestExplainWalksLayerProvenance(t *testing.T) {
	set := channelKinds(t)
	stack, err := NewStack(
		NewLayer(NewScope("system", ScopePrioritySystem), map[channelKind]string{
			channelEmail: "system-smtp",
			channelSMS:   "system-gateway",
		}, WithSnapshotID[channelKind, string]("snap-system")),
		NewLayer(NewScope("tenant", ScopePriorityTenant), map[channelKind]string{
			channelEmail: "tenant-smtp",
		}, WithSnapshotID[channelKind, string]("snap-tenant")),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	resolver, err := stack.Merge(set)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	trace := resolver.Explain(channelEmail)
	if trace.Tag != "email" {
		t.Fatalf("unexpected trace tag: %q", trace.Tag)
	}
	if len(trace.Layers) != 2 {
		t.Fatalf("expected two layers, got %d", len(trace.Layers))
	}
	tenant := trace.Layers[0]
	if tenant.Scope.Name != "tenant" || tenant.SnapshotID != "snap-tenant" {
		t.Fatalf("unexpected strongest layer: %+v", tenant)
	}
	if !tenant.Found || tenant.Value != "tenant-smtp" {
		t.Fatalf("expected tenant layer to carry the winning value: %+v", tenant)
	}
	system := trace.Layers[1]
	if !system.Found || system.Value != "system-smtp" {
		t.Fatalf("expected system layer to report its shadowed value: %+v", system)
	}

	trace = resolver.Explain(channelSMS)
	if trace.Layers[0].Found {
		t.Fatalf("expected tenant layer to miss sms: %+v", trace.Layers[0])
	}
	if !trace.Layers[1].Found || trace.Layers[1].Value != "system-gateway" {
		t.Fatalf("expected system layer to hold sms: %+v", trace.Layers[1])
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	set := channelKinds(t)
	stack, err := NewStack(
		NewLayer(NewScope("system", ScopePrioritySystem, WithScopeLabel("System Defaults")), map[channelKind]string{
			channelEmail: "smtp",
		}, WithSnapshotID[channelKind, string]("snap-1")),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	resolver, err := stack.Merge(set)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	trace := resolver.Explain(channelEmail)
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Tag != trace.Tag {
		t.Fatalf("tag mismatch: %q vs %q", decoded.Tag, trace.Tag)
	}
	if len(decoded.Layers) != 1 {
		t.Fatalf("expected one layer, got %d", len(decoded.Layers))
	}
	layer := decoded.Layers[0]
	if layer.Scope.Name != "system" || layer.SnapshotID != "snap-1" || !layer.Found {
		t.Fatalf("unexpected decoded layer: %+v", layer)
	}
	if layer.Value != "smtp" {
		t.Fatalf("unexpected decoded value: %v", layer.Value)
	}
}
