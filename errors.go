package metalava

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSetting indicates a key outside the recognised settings.
	ErrUnknownSetting = errors.New("metalava: unknown setting")
	// ErrNotCollection indicates a collection operation on a singular setting.
	ErrNotCollection = errors.New("metalava: setting is not a collection")
	// ErrNoEvaluator indicates no rule evaluator could be resolved.
	ErrNoEvaluator = errors.New("metalava: evaluator not configured")

	errWrongType = errors.New("unsupported value type")
)

// TypeError reports a value assigned to a setting of another kind. It is
// returned at assignment time and the scope is left unchanged.
type TypeError struct {
	Key  Key
	Want Kind
	Got  string
	Err  error
}

func (e *TypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil || errors.Is(e.Err, errWrongType) {
		return fmt.Sprintf("metalava: setting %q expects %s, got %s", e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("metalava: setting %q expects %s, got %s: %v", e.Key, e.Want, e.Got, e.Err)
}

func (e *TypeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newTypeError(d descriptor, value any, err error) *TypeError {
	return &TypeError{
		Key:  d.key,
		Want: d.kind,
		Got:  fmt.Sprintf("%T", value),
		Err:  err,
	}
}

func unknownSetting(key Key) error {
	return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Scope  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("metalava: %s evaluator %s scope=%s: %v", e.Engine, describeExpression(e.Expr), e.Scope, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "metalava:") {
		return err
	}
	return fmt.Errorf("metalava: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, scope string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Scope == "" {
			evalErr.Scope = scope
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Scope:  scope,
		Err:    err,
	}
}
