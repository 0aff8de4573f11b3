package metalava

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Resolved is the effective value of every setting for one scope. It is a
// detached copy handed to the layer that builds the tool invocation.
type Resolved struct {
	Version                  string
	MetalavaJarPath          Optional[string]
	JavaSourceLevel          JavaVersion
	Format                   Format
	Signature                Signature
	Filename                 string
	Documentation            Documentation
	OutputKotlinNulls        bool
	OutputDefaultValues      bool
	IncludeSignatureVersion  bool
	HiddenPackages           []string
	HiddenAnnotations        []string
	InputKotlinNulls         bool
	ReportWarningsAsErrors   bool
	ReportLintsAsErrors      bool
	IgnoreUnsupportedModules bool
	AndroidVariantName       string
}

// Resolve captures the effective value of every setting.
func (s *Scope) Resolve() Resolved {
	return Resolved{
		Version:                  s.Version(),
		MetalavaJarPath:          s.MetalavaJarPath(),
		JavaSourceLevel:          s.JavaSourceLevel(),
		Format:                   s.Format(),
		Signature:                s.Signature(),
		Filename:                 s.Filename(),
		Documentation:            s.Documentation(),
		OutputKotlinNulls:        s.OutputKotlinNulls(),
		OutputDefaultValues:      s.OutputDefaultValues(),
		IncludeSignatureVersion:  s.IncludeSignatureVersion(),
		HiddenPackages:           s.HiddenPackages(),
		HiddenAnnotations:        s.HiddenAnnotations(),
		InputKotlinNulls:         s.InputKotlinNulls(),
		ReportWarningsAsErrors:   s.ReportWarningsAsErrors(),
		ReportLintsAsErrors:      s.ReportLintsAsErrors(),
		IgnoreUnsupportedModules: s.IgnoreUnsupportedModules(),
		AndroidVariantName:       s.AndroidVariantName(),
	}
}

// ToolSemver parses Version as a semantic version.
func (r Resolved) ToolSemver() (*semver.Version, error) {
	version, err := semver.NewVersion(r.Version)
	if err != nil {
		return nil, fmt.Errorf("metalava: tool version %q: %w", r.Version, err)
	}
	return version, nil
}

// Snapshot returns the effective settings keyed by setting key, with enums
// rendered as strings and collections as sorted string slices. An absent
// JAR path is omitted.
func (s *Scope) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(descriptors))
	for _, d := range descriptors {
		value, present, _ := s.resolve(d)
		if !present {
			continue
		}
		snapshot[string(d.key)] = renderValue(value)
	}
	return snapshot
}

// renderValue converts a stored value into plain strings, bools and string
// slices for logs, events, evaluators and persistence.
func renderValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case *StringSet:
		return typed.Values()
	case []string:
		return append([]string{}, typed...)
	case JavaVersion:
		return typed.String()
	case Format:
		return string(typed)
	case Signature:
		return string(typed)
	case Documentation:
		return string(typed)
	default:
		return value
	}
}

// RenderLocals returns the local assignments in the plain form produced by
// Snapshot, suitable for persisting and feeding back through Set.
func (s *Scope) RenderLocals() map[string]any {
	out := make(map[string]any, len(s.locals))
	for key, value := range s.locals {
		out[string(key)] = renderValue(value)
	}
	return out
}
