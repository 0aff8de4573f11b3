package metalava

import "time"

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating an expression. Snapshot
// is normally the scope's Snapshot map.
type RuleContext struct {
	Snapshot  any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	ScopeName string
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx RuleContext) scopeLabel() string {
	if ctx.ScopeName != "" {
		return ctx.ScopeName
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

// WithEvaluator sets the rule evaluator used by Evaluate.
func WithEvaluator(e Evaluator) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.evaluator = e
	}
}

// WithEvaluatorLogger attaches an evaluator logger to the scope.
func WithEvaluatorLogger(logger EvaluatorLogger) ScopeOption {
	return func(cfg *scopeConfig) {
		if logger == nil {
			cfg.evaluatorLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}

func (s *Scope) evaluatorLogger() EvaluatorLogger {
	if s.cfg.evaluatorLogger != nil {
		return s.cfg.evaluatorLogger
	}
	return noopEvaluatorLogger{}
}
