package variant

import (
	"errors"
	"fmt"
	"testing"
)

func newAnimalHandlers(t *testing.T, opts ...HandlerRegistryOption[animalKind, animal, string]) *HandlerRegistry[animalKind, animal, string] {
	t.Helper()
	registry, err := NewHandlerRegistry[animalKind, animal, string](animalKinds(t), opts...)
	if err != nil {
		t.Fatalf("handler registry: %v", err)
	}
	return registry
}

func TestDispatchPrefersRegisteredHandler(t *testing.T) {
	registry := newAnimalHandlers(t, WithFallbackHandler(func(tag animalKind, _ animal) (string, error) {
		return fmt.Sprintf("I am an animal (kind=%s)", tag), nil
	}))
	if err := registry.Register(kindCat, func(a animal) (string, error) {
		return a.(cat).Meow, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := registry.Dispatch(kindCat, cat{Meow: "Did you call me?"})
	if err != nil {
		t.Fatalf("dispatch cat: %v", err)
	}
	if got != "Did you call me?" {
		t.Fatalf("unexpected cat result: %q", got)
	}

	got, err = registry.Dispatch(kindFish, fish{})
	if err != nil {
		t.Fatalf("dispatch fish: %v", err)
	}
	if got != "I am an animal (kind=fish)" {
		t.Fatalf("unexpected fallback result: %q", got)
	}
}

func TestResolveBindsTagIntoFallback(t *testing.T) {
	var seen []animalKind
	registry := newAnimalHandlers(t, WithFallbackHandler(func(tag animalKind, _ animal) (string, error) {
		seen = append(seen, tag)
		return string(tag), nil
	}))

	handler, err := registry.Resolve(kindFish)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, err := handler(fish{}); err != nil || got != "fish" {
		t.Fatalf("unexpected fallback invocation: %q, %v", got, err)
	}
	if len(seen) != 1 || seen[0] != kindFish {
		t.Fatalf("expected fallback to receive queried tag, got %v", seen)
	}
}

func TestDispatchWithoutHandlerOrFallbackFails(t *testing.T) {
	registry := newAnimalHandlers(t)
	if _, err := registry.Dispatch(kindFish, fish{}); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
	if _, err := registry.Dispatch(animalKind("dog"), fish{}); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestRegisterGuards(t *testing.T) {
	registry := newAnimalHandlers(t)
	echo := func(animal) (string, error) { return "", nil }

	if err := registry.Register(kindCat, nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	if err := registry.Register(animalKind("dog"), echo); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if err := registry.Register(kindCat, echo); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(kindCat, echo); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
	if tags := registry.Tags(); len(tags) != 1 || tags[0] != kindCat {
		t.Fatalf("unexpected registered tags: %v", tags)
	}
}

func TestRegisterTypedNarrowsPayload(t *testing.T) {
	registry := newAnimalHandlers(t)
	if err := RegisterTyped(registry, kindCat, func(c cat) (string, error) {
		return c.Meow, nil
	}); err != nil {
		t.Fatalf("register typed: %v", err)
	}

	got, err := registry.Dispatch(kindCat, cat{Meow: "Did you call me?"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got != "Did you call me?" {
		t.Fatalf("unexpected result: %q", got)
	}

	if _, err := registry.Dispatch(kindCat, fish{}); !errors.Is(err, ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch, got %v", err)
	}
}

func TestLookupDoesNotConsultFallback(t *testing.T) {
	registry := newAnimalHandlers(t, WithFallbackHandler(func(animalKind, animal) (string, error) {
		return "fallback", nil
	}))
	if registry.Lookup(kindFish).IsSome() {
		t.Fatalf("expected lookup to report absence for unregistered tag")
	}
}
