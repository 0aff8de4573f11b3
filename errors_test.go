package metalava

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorFillsMissingFields(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "signature == 1", ":app", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "signature == 1" || evalErr.Scope != ":app" {
		t.Fatalf("unexpected fields %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected unwrap to reach base error")
	}

	partial := &EvaluationError{Engine: "cel", Err: base}
	rewrapped := wrapEvaluationError("expr", "x", ":", partial)
	if rewrapped != partial {
		t.Fatalf("existing EvaluationError must be reused")
	}
	if partial.Engine != "cel" || partial.Expr != "x" || partial.Scope != ":" {
		t.Fatalf("expected only empty fields to be filled, got %+v", partial)
	}

	if wrapEvaluationError("expr", "x", ":", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestEvaluationErrorMessage(t *testing.T) {
	err := &EvaluationError{Engine: "cel", Expr: "a == b", Scope: ":app", Err: errors.New("no such key")}
	msg := err.Error()
	for _, fragment := range []string{"metalava: cel evaluator", `expr="a == b"`, "scope=:app", "no such key"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in %q", fragment, msg)
		}
	}
	empty := &EvaluationError{Engine: "expr", Err: errors.New("x")}
	if !strings.Contains(empty.Error(), "expr=<empty>") {
		t.Fatalf("expected empty expression marker, got %q", empty.Error())
	}
	var nilErr *EvaluationError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil receiver must be safe")
	}
}

func TestWrapEvaluatorErrorPrefixes(t *testing.T) {
	err := wrapEvaluatorError("js", errors.New("runtime missing"))
	if err.Error() != "metalava: js evaluator: runtime missing" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	prefixed := errors.New("metalava: already prefixed")
	if wrapEvaluatorError("js", prefixed) != prefixed {
		t.Fatalf("prefixed errors must pass through")
	}
	if wrapEvaluatorError("js", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestTypeError(t *testing.T) {
	scope := NewScope(":", nil)

	err := scope.Set(KeyOutputKotlinNulls, 42)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if typeErr.Want != KindBool || typeErr.Got != "int" {
		t.Fatalf("unexpected TypeError %+v", typeErr)
	}
	if got := typeErr.Error(); got != `metalava: setting "outputKotlinNulls" expects bool, got int` {
		t.Fatalf("unexpected message %q", got)
	}

	err = scope.Set(KeyDocumentation, "internal")
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if typeErr.Unwrap() == nil || !strings.Contains(typeErr.Error(), "unknown documentation level") {
		t.Fatalf("expected parse failure to be wrapped, got %q", typeErr.Error())
	}
}
