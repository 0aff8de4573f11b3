package metalava

import (
	"fmt"
	"time"
)

// Evaluate runs expr against the scope's Snapshot, so rules can query the
// effective settings, e.g. `signature == "removed" && reportLintsAsErrors`.
func (s *Scope) Evaluate(expr string) (Response[any], error) {
	return s.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx, filling Snapshot and ScopeName from the
// scope when they are empty.
func (s *Scope) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("metalava: expression must not be empty")
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = s.Snapshot()
	}
	if ctx.ScopeName == "" {
		ctx.ScopeName = s.Name
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.scopeLabel(), evalErr)
	s.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    ctx.scopeLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (s *Scope) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	if s.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(s.cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if jsEvaluatorAvailable() && isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
