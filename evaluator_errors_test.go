package variant

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", `tag == "fish"`, "tenant", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != `tag == "fish"` {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Scope != "tenant" {
		t.Fatalf("expected scope metadata, got %q", evalErr.Scope)
	}
	if !errors.Is(evalErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	if !strings.HasPrefix(err.Error(), "variant:") {
		t.Fatalf("expected variant prefix, got %q", err.Error())
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "tenant", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Scope != "tenant" {
		t.Fatalf("scope should be filled, got %q", existing.Scope)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	if err := wrapEvaluatorError("expr", nil); err != nil {
		t.Fatalf("expected nil passthrough, got %v", err)
	}

	prefixed := errors.New("variant: already wrapped")
	if err := wrapEvaluatorError("expr", prefixed); err != prefixed {
		t.Fatalf("expected prefixed error untouched, got %v", err)
	}

	plain := errors.New("boom")
	err := wrapEvaluatorError("cel", plain)
	if !errors.Is(err, plain) {
		t.Fatalf("expected wrapping to preserve cause")
	}
	if !strings.HasPrefix(err.Error(), "variant: cel evaluator:") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
