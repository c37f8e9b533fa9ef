package layering

import "testing"

func TestMergeMapsStrongestWins(t *testing.T) {
	user := map[string]string{"email": "user-smtp"}
	tenant := map[string]string{"email": "tenant-smtp", "sms": "tenant-gateway"}
	system := map[string]string{"email": "system-smtp", "sms": "system-gateway", "push": "system-push"}

	merged := MergeMaps(user, tenant, system)

	if merged["email"] != "user-smtp" {
		t.Fatalf("expected strongest layer to win for email, got %q", merged["email"])
	}
	if merged["sms"] != "tenant-gateway" {
		t.Fatalf("expected middle layer to fill sms, got %q", merged["sms"])
	}
	if merged["push"] != "system-push" {
		t.Fatalf("expected weakest layer to fill push, got %q", merged["push"])
	}
}

func TestMergeMapsDetachesValues(t *testing.T) {
	type payload struct {
		Items []string
	}
	base := map[string]*payload{"email": {Items: []string{"a"}}}

	merged := MergeMaps(base)
	merged["email"].Items[0] = "mutated"

	if base["email"].Items[0] != "a" {
		t.Fatalf("expected merged values to be deep copies, got %v", base["email"].Items)
	}
}

func TestMergeMapsEmptyInput(t *testing.T) {
	merged := MergeMaps[string, int]()
	if merged == nil || len(merged) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", merged)
	}
}

func TestCloneDeepCopies(t *testing.T) {
	type inner struct {
		Values map[string]int
	}
	type outer struct {
		Inner *inner
		List  []string
	}

	original := outer{
		Inner: &inner{Values: map[string]int{"a": 1}},
		List:  []string{"x"},
	}
	cloned := Clone(original)

	cloned.Inner.Values["a"] = 99
	cloned.List[0] = "mutated"

	if original.Inner.Values["a"] != 1 {
		t.Fatalf("expected nested map detached, got %v", original.Inner.Values)
	}
	if original.List[0] != "x" {
		t.Fatalf("expected slice detached, got %v", original.List)
	}
}

func TestCloneNilValues(t *testing.T) {
	if got := Clone[map[string]int](nil); got != nil {
		t.Fatalf("expected nil map clone, got %v", got)
	}
	if got := Clone[*int](nil); got != nil {
		t.Fatalf("expected nil pointer clone, got %v", got)
	}
	if got := Clone(42); got != 42 {
		t.Fatalf("expected scalar passthrough, got %v", got)
	}
}
