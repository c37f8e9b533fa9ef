package variant

import (
	"errors"
	"testing"
)

type channelKind string

const (
	channelEmail channelKind = "email"
	channelSMS   channelKind = "sms"
	channelPush  channelKind = "push"
)

func channelKinds(t *testing.T) *TagSet[channelKind] {
	t.Helper()
	set, err := NewTagSet(channelEmail, channelSMS, channelPush)
	if err != nil {
		t.Fatalf("tag set: %v", err)
	}
	return set
}

func TestNewScopeCopiesMetadata(t *testing.T) {
	metadata := map[string]any{"region": "us-east-1"}
	scope := NewScope("tenant", ScopePriorityTenant,
		WithScopeLabel("Tenant"),
		WithScopeMetadata(metadata),
	)

	metadata["region"] = "mutated"

	if scope.Name != "tenant" || scope.Label != "Tenant" || scope.Priority != ScopePriorityTenant {
		t.Fatalf("unexpected scope: %+v", scope)
	}
	if scope.Metadata["region"] != "us-east-1" {
		t.Fatalf("expected metadata copied at construction, got %v", scope.Metadata)
	}
}

func TestNewLayerClonesSnapshot(t *testing.T) {
	snapshot := map[channelKind]string{channelEmail: "smtp"}
	layer := NewLayer(NewScope("tenant", ScopePriorityTenant), snapshot,
		WithSnapshotID[channelKind, string]("snap-1"),
	)

	snapshot[channelEmail] = "mutated"

	if layer.Snapshot[channelEmail] != "smtp" {
		t.Fatalf("expected snapshot cloned at construction, got %v", layer.Snapshot)
	}
	if layer.SnapshotID != "snap-1" {
		t.Fatalf("unexpected snapshot id: %q", layer.SnapshotID)
	}
}

func TestNewStackOrdersAndValidates(t *testing.T) {
	system := NewLayer(NewScope("system", ScopePrioritySystem), map[channelKind]string{channelEmail: "system"})
	tenant := NewLayer(NewScope("tenant", ScopePriorityTenant), map[channelKind]string{channelEmail: "tenant"})
	user := NewLayer(NewScope("user", ScopePriorityUser), map[channelKind]string{channelEmail: "user"})

	stack, err := NewStack(system, user, tenant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	layers := stack.Layers()
	if len(layers) != 3 {
		t.Fatalf("expected three layers, got %d", len(layers))
	}
	if layers[0].Scope.Name != "user" || layers[1].Scope.Name != "tenant" || layers[2].Scope.Name != "system" {
		t.Fatalf("expected strongest-first ordering, got %v, %v, %v",
			layers[0].Scope.Name, layers[1].Scope.Name, layers[2].Scope.Name)
	}

	unnamed := NewLayer(NewScope("", 50), map[channelKind]string{})
	if _, err := NewStack(unnamed); !errors.Is(err, ErrScopeNameRequired) {
		t.Fatalf("expected ErrScopeNameRequired, got %v", err)
	}

	duplicate := NewLayer(NewScope("system", 999), map[channelKind]string{})
	if _, err := NewStack(system, duplicate); !errors.Is(err, ErrDuplicateScopeName) {
		t.Fatalf("expected ErrDuplicateScopeName, got %v", err)
	}

	samePriority := NewLayer(NewScope("other", ScopePrioritySystem), map[channelKind]string{})
	if _, err := NewStack(system, samePriority); !errors.Is(err, ErrPriorityOrder) {
		t.Fatalf("expected ErrPriorityOrder, got %v", err)
	}
}

func TestStackMergeStrongestWinsPerTag(t *testing.T) {
	set := channelKinds(t)
	stack, err := NewStack(
		NewLayer(NewScope("system", ScopePrioritySystem), map[channelKind]string{
			channelEmail: "system-smtp",
			channelSMS:   "system-gateway",
		}),
		NewLayer(NewScope("tenant", ScopePriorityTenant), map[channelKind]string{
			channelEmail: "tenant-smtp",
		}),
	)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}

	resolver, err := stack.Merge(set)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if got := resolver.GetOrZero(channelEmail); got != "tenant-smtp" {
		t.Fatalf("expected strongest layer to win for email, got %q", got)
	}
	if got := resolver.GetOrZero(channelSMS); got != "system-gateway" {
		t.Fatalf("expected weaker layer to fill sms, got %q", got)
	}
	if resolver.Lookup(channelPush).IsSome() {
		t.Fatalf("expected push to stay absent after merge")
	}
	if got := resolver.GetOr(channelPush, "none"); got != "none" {
		t.Fatalf("expected typed fallback for unconfigured tag, got %q", got)
	}
}

func TestSystemTenantOrgTeamUserHelper(t *testing.T) {
	set := channelKinds(t)
	resolver, err := SystemTenantOrgTeamUser(set,
		map[channelKind]string{channelEmail: "system", channelSMS: "system"},
		map[channelKind]string{channelEmail: "tenant"},
		nil,
		nil,
		map[channelKind]string{channelSMS: "user"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolver.GetOrZero(channelEmail); got != "tenant" {
		t.Fatalf("expected tenant to override system for email, got %q", got)
	}
	if got := resolver.GetOrZero(channelSMS); got != "user" {
		t.Fatalf("expected user to override system for sms, got %q", got)
	}
}

func TestLayerWithKeepsRegistryAsWeakest(t *testing.T) {
	registry, err := NewRegistry[channelKind, string](channelKinds(t))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if err := registry.Register(channelEmail, "base"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(channelSMS, "base"); err != nil {
		t.Fatalf("register: %v", err)
	}

	layered := New(registry).LayerWith(map[channelKind]string{channelEmail: "override"})
	if got := layered.GetOrZero(channelEmail); got != "override" {
		t.Fatalf("expected override to win, got %q", got)
	}
	if got := layered.GetOrZero(channelSMS); got != "base" {
		t.Fatalf("expected registry entry to survive, got %q", got)
	}
	if got := New(registry).GetOrZero(channelEmail); got != "base" {
		t.Fatalf("expected original registry untouched, got %q", got)
	}
}
