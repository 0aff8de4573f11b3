package metalava

import (
	"fmt"
	"slices"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions are reachable through call(name) and call(name, [args]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Every setting key
// is declared as a dynamic variable so rules type check before a snapshot
// exists.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaults()
	snapshot := snapshotAsMap(ctx.Snapshot)
	program, err := e.loadOrCompile(expression, variableNames(snapshot))
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program, snapshot)
}

func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression, variableNames(nil))
	if err != nil {
		return nil, err
	}
	return &celCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, variables []string) (celgo.Program, error) {
	key := cacheKey("cel", strings.Join(variables, ",")+"|"+expression)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(variables)
	if err != nil {
		return nil, wrapEvaluatorError("cel", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv(variables []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("metadata", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("scope", celgo.StringType),
	}
	for _, name := range variables {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType},
				celgo.DynType,
				celgo.UnaryBinding(func(name ref.Val) ref.Val {
					return e.call(name, nil)
				}),
			),
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(e.call),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) run(ctx RuleContext, expression string, program celgo.Program, snapshot map[string]any) (any, error) {
	activation := map[string]any{
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"scope":    ctx.ScopeName,
	}
	for key, value := range snapshot {
		activation[key] = value
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.scopeLabel(), err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) call(name ref.Val, arguments ref.Val) ref.Val {
	fn, ok := name.Value().(string)
	if !ok {
		return types.NewErr("metalava: call name must be string")
	}
	var args []any
	if list, ok := arguments.(traits.Lister); ok {
		size, _ := list.Size().(types.Int)
		for i := types.Int(0); i < size; i++ {
			args = append(args, list.Get(i).Value())
		}
	}
	result, err := e.registry.Call(fn, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
	program    celgo.Program
}

// Evaluate runs the compiled program. Snapshot entries outside the setting
// catalogue are ignored because the program was checked without them.
func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("compiled rule missing evaluator"))
	}
	return r.evaluator.run(ctx.withDefaults(), r.expression, r.program, snapshotAsMap(ctx.Snapshot))
}

func snapshotAsMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// variableNames returns the setting keys plus any extra snapshot keys,
// sorted so equal inputs share a cache entry.
func variableNames(snapshot map[string]any) []string {
	reserved := map[string]struct{}{"now": {}, "args": {}, "metadata": {}, "scope": {}}
	names := make([]string, 0, len(descriptors)+len(snapshot))
	seen := make(map[string]struct{}, cap(names))
	add := func(name string) {
		if _, skip := reserved[name]; skip {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, key := range Keys() {
		add(string(key))
	}
	for key := range snapshot {
		add(key)
	}
	slices.Sort(names)
	return names
}
