package metalava

import (
	"maps"

	"github.com/goliatone/go-metalava/layering"
)

// Scope holds the local setting overrides of one project. Reads fall back
// to the parent scope and finally to the setting's fixed default. A scope
// does not own its parent; the parent link is fixed at construction.
//
// Scopes are meant for a single-threaded configuration phase and carry no
// locking.
type Scope struct {
	Name     string
	Label    string
	Metadata map[string]any

	parent *Scope
	locals map[Key]any
	cfg    scopeConfig
}

// ScopeOption configures a Scope on creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label           string
	metadata        map[string]any
	projectVersion  string
	logger          Logger
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	evaluatorLogger EvaluatorLogger
	schemaGenerator SchemaGenerator
	emitter         *activityEmitter
}

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// WithScopeMetadata attaches arbitrary metadata to the scope. The map is
// copied so later caller mutations are not observed.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(cfg *scopeConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyMetadata(metadata)
	}
}

// WithProjectVersion records the host project's version string, used by the
// filename default.
func WithProjectVersion(version string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.projectVersion = version
	}
}

// WithLogger routes scope write logs to logger.
func WithLogger(logger Logger) ScopeOption {
	return func(cfg *scopeConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// NewScope creates a scope below parent, which may be nil for a root scope.
// Loggers, evaluators, schema generators and activity hooks are inherited
// from the parent unless overridden by opts; label, metadata and project
// version are not.
func NewScope(name string, parent *Scope, opts ...ScopeOption) *Scope {
	cfg := scopeConfig{}
	if parent != nil {
		cfg = parent.cfg
		cfg.label = ""
		cfg.metadata = nil
		cfg.projectVersion = ""
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return &Scope{
		Name:     name,
		Label:    cfg.label,
		Metadata: copyMetadata(cfg.metadata),
		parent:   parent,
		locals:   map[Key]any{},
		cfg:      cfg,
	}
}

// Parent returns the parent scope, nil for a root.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// ProjectVersion returns the host project version, UnspecifiedVersion when
// none was supplied.
func (s *Scope) ProjectVersion() string {
	if s == nil || s.cfg.projectVersion == "" {
		return UnspecifiedVersion
	}
	return s.cfg.projectVersion
}

// Depth is the number of ancestors above the scope.
func (s *Scope) Depth() int {
	return s.chain().Len() - 1
}

// Chain returns the resolution chain, this scope first and the root last.
func (s *Scope) Chain() []*Scope {
	return s.chain().Ordered()
}

func (s *Scope) chain() layering.Chain[*Scope] {
	return layering.Walk(s, (*Scope).Parent)
}

// resolve walks the chain for key. holder is the chain index of the scope
// that supplied the value, or -1 when the default applied.
func (s *Scope) resolve(d descriptor) (value any, present bool, holder int) {
	chain := s.chain()
	value, holder, present = layering.Find(chain, func(scope *Scope) (any, bool) {
		v, ok := scope.locals[d.key]
		return v, ok
	})
	if present {
		return value, true, holder
	}
	value, present = d.def(chain.Weakest())
	return value, present, -1
}

// Lookup resolves key through the chain. The result is absent only for
// settings without a default, such as the JAR path.
func (s *Scope) Lookup(key Key) (Optional[any], error) {
	d, ok := descriptorIndex[key]
	if !ok {
		return None[any](), unknownSetting(key)
	}
	value, present, _ := s.resolve(d)
	if !present {
		return None[any](), nil
	}
	return Some(exportValue(value)), nil
}

// Get resolves key through the chain. Absent values are returned as nil.
// Collections are returned as a detached *StringSet.
func (s *Scope) Get(key Key) (any, error) {
	value, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}
	v, _ := value.Get()
	return v, nil
}

// Local returns the value assigned directly on this scope, without
// consulting parents or defaults.
func (s *Scope) Local(key Key) (Optional[any], error) {
	if _, ok := descriptorIndex[key]; !ok {
		return None[any](), unknownSetting(key)
	}
	value, ok := s.locals[key]
	if !ok {
		return None[any](), nil
	}
	return Some(exportValue(value)), nil
}

// IsSet reports whether key has a local assignment on this scope.
func (s *Scope) IsSet(key Key) bool {
	_, ok := s.locals[key]
	return ok
}

// Set assigns value locally, shadowing the parent chain for this scope and
// its descendants. Strings are parsed for enum and Java version settings and
// string slices are accepted for collections. Java versions given as
// numbers must be whole (11) or one of the legacy 1.5 to 1.8 levels; pass
// other fractional levels as quoted strings ("1.10"), since a float has
// already lost their digits. A value of the wrong kind returns a *TypeError
// and leaves the scope untouched.
func (s *Scope) Set(key Key, value any) error {
	d, ok := descriptorIndex[key]
	if !ok {
		return unknownSetting(key)
	}
	decoded, err := d.decode(value)
	if err != nil {
		return newTypeError(d, value, err)
	}
	s.assign(d, decoded)
	return nil
}

// Add appends items to a collection setting, materializing a local copy of
// the inherited collection first. Items already present are ignored.
func (s *Scope) Add(key Key, items ...string) error {
	d, ok := descriptorIndex[key]
	if !ok {
		return unknownSetting(key)
	}
	if d.kind != KindStringSet {
		return ErrNotCollection
	}
	s.addItems(d, items)
	return nil
}

// Materialize returns the local collection for key, seeding it with a copy
// of the inherited value when the scope has none. Later changes to parent
// scopes are not reflected in the returned set.
func (s *Scope) Materialize(key Key) (*StringSet, error) {
	d, ok := descriptorIndex[key]
	if !ok {
		return nil, unknownSetting(key)
	}
	if d.kind != KindStringSet {
		return nil, ErrNotCollection
	}
	return s.materialize(d), nil
}

// Unset removes the local assignment for key so the scope inherits again.
// It reports whether a local value existed.
func (s *Scope) Unset(key Key) bool {
	d, ok := descriptorIndex[key]
	if !ok {
		return false
	}
	old, existed := s.locals[key]
	if !existed {
		return false
	}
	delete(s.locals, key)
	s.cfg.logger.Debug("setting cleared", "scope", s.Name, "key", key)
	s.emitCleared(d, old)
	return true
}

// Locals returns a detached copy of the local assignments.
func (s *Scope) Locals() map[Key]any {
	out := make(map[Key]any, len(s.locals))
	for key, value := range s.locals {
		out[key] = exportValue(value)
	}
	return out
}

func (s *Scope) assign(d descriptor, value any) {
	var old any
	if s.cfg.emitter.enabled() {
		previous, _, _ := s.resolve(d)
		old = exportValue(previous)
	}
	s.locals[d.key] = value
	s.cfg.logger.Debug("setting assigned", "scope", s.Name, "key", d.key, "value", value)
	s.emitUpdated(d, old, exportValue(value))
}

func (s *Scope) materialize(d descriptor) *StringSet {
	if local, ok := s.locals[d.key].(*StringSet); ok {
		return local
	}
	inherited, _, _ := s.resolve(d)
	set, ok := inherited.(*StringSet)
	if !ok {
		set = NewStringSet()
	}
	local := set.Clone()
	s.locals[d.key] = local
	s.cfg.logger.Debug("collection materialized", "scope", s.Name, "key", d.key, "size", local.Len())
	s.emitMaterialized(d, local.Values())
	return local
}

func (s *Scope) addItems(d descriptor, items []string) {
	set := s.materialize(d)
	var old []string
	if s.cfg.emitter.enabled() {
		old = set.Values()
	}
	if added := set.Add(items...); added > 0 {
		s.cfg.logger.Debug("collection extended", "scope", s.Name, "key", d.key, "added", added)
		s.emitUpdated(d, old, set.Values())
	}
}

// exportValue detaches mutable values before they leave the scope.
func exportValue(value any) any {
	if set, ok := value.(*StringSet); ok {
		return set.Clone()
	}
	return value
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	return maps.Clone(origin)
}
