package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

var (
	// ErrETagMismatch is returned when a save races with another writer.
	ErrETagMismatch = errors.New("state: etag mismatch")
	// ErrInvalidPath is returned for malformed project paths.
	ErrInvalidPath = errors.New("state: invalid project path")
)

// RootPath is the path of the root project.
const RootPath = ":"

// DefaultDomain namespaces stored overrides when Resolver.Domain is empty.
const DefaultDomain = "metalava"

// Project describes one host build project.
type Project struct {
	Path    string
	Version string
	Label   string
}

// Ref identifies the stored overrides of one project.
type Ref struct {
	Domain string
	Path   string
}

// Identifier returns the deterministic storage key for r.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	path, err := NormalizePath(r.Path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", r.Domain, path), nil
}

// Overrides maps setting keys to raw values as accepted by Scope.Set.
type Overrides map[string]any

// Clone returns a shallow copy; slice values are copied too.
func (o Overrides) Clone() Overrides {
	if o == nil {
		return nil
	}
	out := make(Overrides, len(o))
	for key, value := range o {
		switch typed := value.(type) {
		case []string:
			out[key] = append([]string{}, typed...)
		case []any:
			out[key] = append([]any{}, typed...)
		default:
			out[key] = value
		}
	}
	return out
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

func cloneMeta(meta Meta) Meta {
	out := meta
	out.Extra = maps.Clone(meta.Extra)
	return out
}

// Store loads and saves the overrides of a single project.
type Store interface {
	Load(ctx context.Context, ref Ref) (overrides Overrides, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, overrides Overrides, meta Meta) (Meta, error)
}

// NormalizePath canonicalises a project path. "app:core" and ":app:core:"
// both become ":app:core"; an empty path is the root.
func NormalizePath(path string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), ":")
	if trimmed == "" {
		return RootPath, nil
	}
	segments := strings.Split(trimmed, ":")
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" || strings.ContainsAny(segment, " /\t") {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return ":" + strings.Join(segments, ":"), nil
}

// ParentPath returns the parent of a normalised path. The root has none.
func ParentPath(path string) (string, bool) {
	if path == RootPath || path == "" {
		return "", false
	}
	idx := strings.LastIndex(path, ":")
	if idx <= 0 {
		return RootPath, true
	}
	return path[:idx], true
}

// PathDepth is the number of segments in a normalised path; the root is 0.
func PathDepth(path string) int {
	if path == RootPath {
		return 0
	}
	return strings.Count(path, ":")
}
