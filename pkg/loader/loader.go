// Package loader reads a settings file plus environment overrides and builds
// the project scope tree from it.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	metalava "github.com/goliatone/go-metalava"
	"github.com/goliatone/go-metalava/internal/hydrate"
	"github.com/goliatone/go-metalava/pkg/state"
)

// DefaultEnvPrefix is stripped from environment variables that override the
// root project's settings, e.g. METALAVA_DOCUMENTATION=public.
const DefaultEnvPrefix = "METALAVA_"

// Document is the settings file layout. Metalava holds the root project's
// overrides; Projects holds the overrides of sub-projects keyed by path.
type Document struct {
	ProjectVersion string                     `json:"projectVersion,omitempty"`
	Label          string                     `json:"label,omitempty"`
	Metalava       map[string]any             `json:"metalava,omitempty"`
	Projects       map[string]ProjectDocument `json:"projects,omitempty"`
}

// ProjectDocument is one entry of Document.Projects.
type ProjectDocument struct {
	ProjectVersion string         `json:"projectVersion,omitempty"`
	Label          string         `json:"label,omitempty"`
	Metalava       map[string]any `json:"metalava,omitempty"`
}

// Option configures a load.
type Option func(*config)

type config struct {
	envPrefix    string
	env          bool
	scopeOptions []metalava.ScopeOption
	store        state.Store
	domain       string
	projects     []state.Project
}

// WithEnvPrefix changes the environment prefix (default METALAVA_).
func WithEnvPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.envPrefix = prefix
		}
	}
}

// WithoutEnv ignores environment variables.
func WithoutEnv() Option {
	return func(cfg *config) {
		cfg.env = false
	}
}

// WithScopeOptions applies opts to the root scope of the built tree.
func WithScopeOptions(opts ...metalava.ScopeOption) Option {
	return func(cfg *config) {
		cfg.scopeOptions = append(cfg.scopeOptions, opts...)
	}
}

// WithStore seeds the document into store instead of a fresh MemoryStore, so
// callers can persist later edits.
func WithStore(store state.Store, domain string) Option {
	return func(cfg *config) {
		cfg.store = store
		cfg.domain = domain
	}
}

// WithProjects adds projects to the built tree even when the document does
// not mention them.
func WithProjects(projects ...state.Project) Option {
	return func(cfg *config) {
		cfg.projects = append(cfg.projects, projects...)
	}
}

func newConfig(opts []Option) config {
	cfg := config{envPrefix: DefaultEnvPrefix, env: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LoadDocument reads path (YAML, or JSON by extension) and applies
// environment overrides. An empty path loads the environment only.
func LoadDocument(path string, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return Document{}, fmt.Errorf("loader: read %s: %w", path, err)
		}
	}
	if cfg.env {
		if err := k.Load(env.Provider(cfg.envPrefix, ".", envTransform(cfg.envPrefix)), nil); err != nil {
			return Document{}, fmt.Errorf("loader: read environment: %w", err)
		}
	}

	source := path
	if source == "" {
		source = "env"
	}
	return decodeDocument(hydrate.Context{Source: source}, k.Raw())
}

// Load reads the document and builds the scope tree it describes.
func Load(ctx context.Context, path string, opts ...Option) (*state.Tree, error) {
	doc, err := LoadDocument(path, opts...)
	if err != nil {
		return nil, err
	}
	return Build(ctx, doc, opts...)
}

// Build seeds doc into a store and resolves the scope tree from it.
func Build(ctx context.Context, doc Document, opts ...Option) (*state.Tree, error) {
	cfg := newConfig(opts)
	store := cfg.store
	if store == nil {
		store = state.NewMemoryStore()
	}
	resolver := state.Resolver{Store: store, Domain: cfg.domain, Options: cfg.scopeOptions}
	if err := doc.Seed(ctx, store, cfg.domain); err != nil {
		return nil, err
	}
	return resolver.Build(ctx, append(doc.ProjectList(), cfg.projects...)...)
}

// ProjectList lists the root and every sub-project described by the document.
func (d Document) ProjectList() []state.Project {
	projects := []state.Project{{Path: state.RootPath, Version: d.ProjectVersion, Label: d.Label}}
	paths := make([]string, 0, len(d.Projects))
	for path := range d.Projects {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		project := d.Projects[path]
		projects = append(projects, state.Project{Path: path, Version: project.ProjectVersion, Label: project.Label})
	}
	return projects
}

// Seed saves every non-empty override block into store.
func (d Document) Seed(ctx context.Context, store state.Store, domain string) error {
	if domain == "" {
		domain = state.DefaultDomain
	}
	blocks := map[string]map[string]any{state.RootPath: d.Metalava}
	for path, project := range d.Projects {
		blocks[path] = project.Metalava
	}
	for path, overrides := range blocks {
		if len(overrides) == 0 {
			continue
		}
		ref := state.Ref{Domain: domain, Path: path}
		if _, err := store.Save(ctx, ref, state.Overrides(overrides), state.Meta{}); err != nil {
			return fmt.Errorf("loader: seed %q: %w", path, err)
		}
	}
	return nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// envTransform maps METALAVA_REPORT_LINTS_AS_ERRORS to
// metalava.reportLintsAsErrors and METALAVA_PROJECT_VERSION to projectVersion.
// Anything else is dropped.
func envTransform(prefix string) func(string) string {
	return func(name string) string {
		trimmed := strings.TrimPrefix(name, prefix)
		if strings.EqualFold(trimmed, "PROJECT_VERSION") {
			return "projectVersion"
		}
		key, ok := metalava.ParseKey(strings.ReplaceAll(trimmed, "_", ""))
		if !ok {
			return ""
		}
		return "metalava." + string(key)
	}
}

var documentDecoder = hydrate.NewDecoder[Document](
	hydrate.WithDisallowUnknownFields[Document](),
	hydrate.WithPreHook[Document](hydrate.SplitLists(
		"metalava."+string(metalava.KeyHiddenPackages),
		"metalava."+string(metalava.KeyHiddenAnnotations),
	)),
	hydrate.WithPostHook[Document](canonicalizeDocument),
)

func decodeDocument(ctx hydrate.Context, raw map[string]any) (Document, error) {
	doc, err := documentDecoder.Decode(ctx, raw)
	if err != nil {
		return Document{}, fmt.Errorf("loader: %w", err)
	}
	return doc, nil
}

// canonicalizeDocument normalises project paths and setting keys so later
// stages see one spelling per key.
func canonicalizeDocument(_ hydrate.Context, doc *Document) error {
	root, err := canonicalKeys(doc.Metalava)
	if err != nil {
		return fmt.Errorf("project %q: %w", state.RootPath, err)
	}
	doc.Metalava = root

	if len(doc.Projects) == 0 {
		return nil
	}
	projects := make(map[string]ProjectDocument, len(doc.Projects))
	for path, project := range doc.Projects {
		normalized, err := state.NormalizePath(path)
		if err != nil {
			return err
		}
		if normalized == state.RootPath {
			return fmt.Errorf("project %q: root settings belong in the top level metalava block", path)
		}
		if _, dup := projects[normalized]; dup {
			return fmt.Errorf("project %q listed twice", normalized)
		}
		overrides, err := canonicalKeys(project.Metalava)
		if err != nil {
			return fmt.Errorf("project %q: %w", normalized, err)
		}
		project.Metalava = overrides
		projects[normalized] = project
	}
	doc.Projects = projects
	return nil
}

func canonicalKeys(block map[string]any) (map[string]any, error) {
	if len(block) == 0 {
		return block, nil
	}
	out := make(map[string]any, len(block))
	for name, value := range block {
		key, ok := metalava.ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", metalava.ErrUnknownSetting, name)
		}
		if _, dup := out[string(key)]; dup {
			return nil, fmt.Errorf("setting %q given twice", key)
		}
		out[string(key)] = value
	}
	return out, nil
}
