package state

import (
	"context"
	"fmt"
	"sort"

	metalava "github.com/goliatone/go-metalava"
)

// Resolver orchestrates per-project loads and links the resulting scopes.
type Resolver struct {
	Store  Store
	Domain string
	// Options are applied to the root scope and inherited by every other.
	Options []metalava.ScopeOption
}

// Mutator edits a scope in place before it is saved.
type Mutator func(*metalava.Scope) error

// Tree is the scope hierarchy of one build, keyed by project path.
type Tree struct {
	scopes map[string]*metalava.Scope
	meta   map[string]Meta
}

// Root returns the root project's scope.
func (t *Tree) Root() *metalava.Scope {
	return t.scopes[RootPath]
}

// Scope returns the scope for path.
func (t *Tree) Scope(path string) (*metalava.Scope, bool) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return nil, false
	}
	scope, ok := t.scopes[normalized]
	return scope, ok
}

// Meta returns the storage metadata loaded for path.
func (t *Tree) Meta(path string) (Meta, bool) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return Meta{}, false
	}
	meta, ok := t.meta[normalized]
	return cloneMeta(meta), ok
}

// Paths lists every project path, parents before children.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, len(t.scopes))
	for path := range t.scopes {
		paths = append(paths, path)
	}
	sortPaths(paths)
	return paths
}

func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		di, dj := PathDepth(paths[i]), PathDepth(paths[j])
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
}

func (r Resolver) domain() string {
	if r.Domain == "" {
		return DefaultDomain
	}
	return r.Domain
}

// Build creates one scope per project, plus any missing ancestors and the
// root, and applies stored overrides. A stored value that Scope.Set rejects
// fails the build.
func (r Resolver) Build(ctx context.Context, projects ...Project) (*Tree, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}

	byPath := map[string]Project{RootPath: {Path: RootPath}}
	for _, project := range projects {
		path, err := NormalizePath(project.Path)
		if err != nil {
			return nil, err
		}
		project.Path = path
		if existing, ok := byPath[path]; ok {
			if project.Version == "" {
				project.Version = existing.Version
			}
			if project.Label == "" {
				project.Label = existing.Label
			}
		}
		byPath[path] = project
		for parent, ok := ParentPath(path); ok; parent, ok = ParentPath(parent) {
			if _, exists := byPath[parent]; !exists {
				byPath[parent] = Project{Path: parent}
			}
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sortPaths(paths)

	tree := &Tree{
		scopes: make(map[string]*metalava.Scope, len(paths)),
		meta:   make(map[string]Meta, len(paths)),
	}
	for _, path := range paths {
		project := byPath[path]
		overrides, meta, found, err := r.Store.Load(ctx, Ref{Domain: r.domain(), Path: path})
		if err != nil {
			return nil, fmt.Errorf("state: load %q: %w", path, err)
		}

		var parent *metalava.Scope
		opts := []metalava.ScopeOption{}
		if parentPath, ok := ParentPath(path); ok {
			parent = tree.scopes[parentPath]
		} else {
			opts = append(opts, r.Options...)
		}
		opts = append(opts,
			metalava.WithProjectVersion(project.Version),
			metalava.WithScopeLabel(project.Label),
		)
		if found && meta.SnapshotID != "" {
			opts = append(opts, metalava.WithScopeMetadata(map[string]any{"snapshot_id": meta.SnapshotID}))
		}

		scope := metalava.NewScope(path, parent, opts...)
		if found {
			if err := applyOverrides(scope, overrides); err != nil {
				return nil, err
			}
			tree.meta[path] = cloneMeta(meta)
		}
		tree.scopes[path] = scope
	}
	return tree, nil
}

func applyOverrides(scope *metalava.Scope, overrides Overrides) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, name := range keys {
		key, ok := metalava.ParseKey(name)
		if !ok {
			return fmt.Errorf("state: project %q: %w: %q", scope.Name, metalava.ErrUnknownSetting, name)
		}
		if err := scope.Set(key, overrides[name]); err != nil {
			return fmt.Errorf("state: project %q: %w", scope.Name, err)
		}
	}
	return nil
}

// Save persists the local overrides of scope. When expected carries an ETag
// it must match the stored one.
func (r Resolver) Save(ctx context.Context, scope *metalava.Scope, expected Meta) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if scope == nil {
		return Meta{}, fmt.Errorf("state: scope is required")
	}
	ref := Ref{Domain: r.domain(), Path: scope.Name}
	current, err := r.checkETag(ctx, ref, expected)
	if err != nil {
		return current, err
	}
	return r.save(ctx, ref, scope, current, expected)
}

// Mutate checks the stored ETag for path, applies fn to the tree's scope and
// saves the result. Nothing is saved when fn fails.
func (r Resolver) Mutate(ctx context.Context, tree *Tree, path string, expected Meta, fn Mutator) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if tree == nil {
		return Meta{}, fmt.Errorf("state: tree is required")
	}
	if fn == nil {
		return Meta{}, fmt.Errorf("state: mutator is required")
	}
	scope, ok := tree.Scope(path)
	if !ok {
		return Meta{}, fmt.Errorf("state: project %q not in tree", path)
	}
	ref := Ref{Domain: r.domain(), Path: scope.Name}
	current, err := r.checkETag(ctx, ref, expected)
	if err != nil {
		return current, err
	}
	if err := fn(scope); err != nil {
		return current, err
	}
	saved, err := r.save(ctx, ref, scope, current, expected)
	if err != nil {
		return current, err
	}
	tree.meta[scope.Name] = cloneMeta(saved)
	return saved, nil
}

func (r Resolver) checkETag(ctx context.Context, ref Ref, expected Meta) (Meta, error) {
	_, current, _, err := r.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", ref.Path, err)
	}
	if expected.ETag != "" && current.ETag != "" && expected.ETag != current.ETag {
		return current, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected.ETag, current.ETag)
	}
	return current, nil
}

func (r Resolver) save(ctx context.Context, ref Ref, scope *metalava.Scope, current, expected Meta) (Meta, error) {
	meta := Meta{Extra: current.Extra}
	if expected.Extra != nil {
		meta.Extra = expected.Extra
	}
	if !expected.UpdatedAt.IsZero() {
		meta.UpdatedAt = expected.UpdatedAt
	}
	saved, err := r.Store.Save(ctx, ref, Overrides(scope.RenderLocals()), meta)
	if err != nil {
		return current, fmt.Errorf("state: save %q: %w", ref.Path, err)
	}
	return saved, nil
}
