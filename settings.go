package metalava

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Key names a recognised setting. Keys match the DSL property names so they
// can be used verbatim in settings files.
type Key string

const (
	KeyVersion                  Key = "version"
	KeyMetalavaJarPath          Key = "metalavaJarPath"
	KeyJavaSourceLevel          Key = "javaSourceLevel"
	KeyFormat                   Key = "format"
	KeySignature                Key = "signature"
	KeyFilename                 Key = "filename"
	KeyDocumentation            Key = "documentation"
	KeyOutputKotlinNulls        Key = "outputKotlinNulls"
	KeyOutputDefaultValues      Key = "outputDefaultValues"
	KeyIncludeSignatureVersion  Key = "includeSignatureVersion"
	KeyHiddenPackages           Key = "hiddenPackages"
	KeyHiddenAnnotations        Key = "hiddenAnnotations"
	KeyInputKotlinNulls         Key = "inputKotlinNulls"
	KeyReportWarningsAsErrors   Key = "reportWarningsAsErrors"
	KeyReportLintsAsErrors      Key = "reportLintsAsErrors"
	KeyIgnoreUnsupportedModules Key = "ignoreUnsupportedModules"
	KeyAndroidVariantName       Key = "androidVariantName"
)

// Kind is the value type of a setting.
type Kind string

const (
	KindString        Kind = "string"
	KindPath          Kind = "path"
	KindVersion       Kind = "version"
	KindJavaVersion   Kind = "java_version"
	KindFormat        Kind = "format"
	KindSignature     Kind = "signature"
	KindTemplate      Kind = "template"
	KindDocumentation Kind = "documentation"
	KindBool          Kind = "bool"
	KindStringSet     Kind = "string_set"
)

const (
	// DefaultToolVersion is the Metalava release used when none is pinned.
	DefaultToolVersion = "1.0.0-alpha04"
	// DefaultAndroidVariant is the build variant used for classpath resolution.
	DefaultAndroidVariant = "debug"
	// UnspecifiedVersion is the host's sentinel for a project without a version.
	UnspecifiedVersion = "unspecified"
	// CurrentToken replaces an unspecified project version in the filename.
	CurrentToken = "current"
)

type descriptor struct {
	key     Key
	kind    Kind
	doc     string
	choices []string
	// def returns the terminal default. root is the weakest scope of the
	// chain being resolved; only the filename default reads it.
	def    func(root *Scope) (any, bool)
	decode func(any) (any, error)
}

func constant(value any) func(*Scope) (any, bool) {
	return func(*Scope) (any, bool) { return value, true }
}

var descriptors = []descriptor{
	{
		key: KeyVersion, kind: KindVersion,
		doc:    "Metalava release to run.",
		def:    constant(DefaultToolVersion),
		decode: decodeString,
	},
	{
		key: KeyMetalavaJarPath, kind: KindPath,
		doc:    "Custom Metalava JAR used instead of the resolved dependency.",
		def:    func(*Scope) (any, bool) { return nil, false },
		decode: decodeString,
	},
	{
		key: KeyJavaSourceLevel, kind: KindJavaVersion,
		doc:    "Source level for Java sources.",
		def:    constant(Java11),
		decode: decodeJavaVersion,
	},
	{
		key: KeyFormat, kind: KindFormat,
		doc:     "Signature file format version.",
		choices: enumStrings(Formats()),
		def:     constant(FormatV4),
		decode:  decodeFormat,
	},
	{
		key: KeySignature, kind: KindSignature,
		doc:     "API surface to write.",
		choices: enumStrings(Signatures()),
		def:     constant(SignatureAPI),
		decode:  decodeSignature,
	},
	{
		key: KeyFilename, kind: KindTemplate,
		doc:    "Output signature file, api/<project version>.api by default.",
		def:    func(root *Scope) (any, bool) { return defaultFilename(root.ProjectVersion()), true },
		decode: decodeString,
	},
	{
		key: KeyDocumentation, kind: KindDocumentation,
		doc:     "Lowest visibility included in the signature.",
		choices: enumStrings(Documentations()),
		def:     constant(DocumentationProtected),
		decode:  decodeDocumentation,
	},
	{
		key: KeyOutputKotlinNulls, kind: KindBool,
		doc:    "Write nullness as Kotlin style ?, ! markers.",
		def:    constant(true),
		decode: decodeBool,
	},
	{
		key: KeyOutputDefaultValues, kind: KindBool,
		doc:    "Include default parameter values in signatures.",
		def:    constant(true),
		decode: decodeBool,
	},
	{
		key: KeyIncludeSignatureVersion, kind: KindBool,
		doc:    "Write the format version comment at the top of signature files.",
		def:    constant(true),
		decode: decodeBool,
	},
	{
		key: KeyHiddenPackages, kind: KindStringSet,
		doc:    "Packages removed from the API even without @hide.",
		def:    func(*Scope) (any, bool) { return NewStringSet(), true },
		decode: decodeStringSet,
	},
	{
		key: KeyHiddenAnnotations, kind: KindStringSet,
		doc:    "Annotations whose elements are treated as hidden.",
		def:    func(*Scope) (any, bool) { return NewStringSet(), true },
		decode: decodeStringSet,
	},
	{
		key: KeyInputKotlinNulls, kind: KindBool,
		doc:    "Read input signatures as using Kotlin style nullness.",
		def:    constant(false),
		decode: decodeBool,
	},
	{
		key: KeyReportWarningsAsErrors, kind: KindBool,
		doc:    "Promote all warnings to errors.",
		def:    constant(false),
		decode: decodeBool,
	},
	{
		key: KeyReportLintsAsErrors, kind: KindBool,
		doc:    "Promote API lint warnings to errors.",
		def:    constant(false),
		decode: decodeBool,
	},
	{
		key: KeyIgnoreUnsupportedModules, kind: KindBool,
		doc:    "Skip unsupported modules instead of failing.",
		def:    constant(false),
		decode: decodeBool,
	},
	{
		key: KeyAndroidVariantName, kind: KindString,
		doc:    "Android variant used to resolve the classpath.",
		def:    constant(DefaultAndroidVariant),
		decode: decodeString,
	},
}

var descriptorIndex = func() map[Key]descriptor {
	index := make(map[Key]descriptor, len(descriptors))
	for _, d := range descriptors {
		index[d.key] = d
	}
	return index
}()

// Keys returns every recognised key in declaration order.
func Keys() []Key {
	keys := make([]Key, len(descriptors))
	for i, d := range descriptors {
		keys[i] = d.key
	}
	return keys
}

// ParseKey resolves name to a Key ignoring case, so environment style names
// like "REPORTLINTSASERRORS" resolve too.
func ParseKey(name string) (Key, bool) {
	trimmed := strings.TrimSpace(name)
	for _, d := range descriptors {
		if strings.EqualFold(string(d.key), trimmed) {
			return d.key, true
		}
	}
	return "", false
}

// KindOf returns the value kind of key.
func KindOf(key Key) (Kind, bool) {
	d, ok := descriptorIndex[key]
	return d.kind, ok
}

// IsCollection reports whether key holds a string set.
func IsCollection(key Key) bool {
	d, ok := descriptorIndex[key]
	return ok && d.kind == KindStringSet
}

func defaultFilename(projectVersion string) string {
	version := strings.TrimSpace(projectVersion)
	if version == "" || version == UnspecifiedVersion {
		version = CurrentToken
	}
	return fmt.Sprintf("api/%s.api", version)
}

func enumStrings[E ~string](values []E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func decodeString(value any) (any, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	default:
		return nil, errWrongType
	}
}

func decodeBool(value any) (any, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return nil, err
		}
		return parsed, nil
	default:
		return nil, errWrongType
	}
}

func decodeJavaVersion(value any) (any, error) {
	switch typed := value.(type) {
	case JavaVersion:
		return typed, nil
	case int:
		return ParseJavaVersion(strconv.Itoa(typed))
	case int64:
		return ParseJavaVersion(strconv.FormatInt(typed, 10))
	case float64:
		return decodeJavaVersionFloat(typed)
	case string:
		return ParseJavaVersion(typed)
	default:
		return nil, errWrongType
	}
}

// decodeJavaVersionFloat accepts unquoted YAML and JSON numbers. Whole
// numbers and the legacy 1.5 to 1.8 spellings are unambiguous; anything
// else lost digits on the way in (1.10 reads as 1.1) and must be quoted.
func decodeJavaVersionFloat(value float64) (any, error) {
	if value == math.Trunc(value) {
		return ParseJavaVersion(strconv.FormatFloat(value, 'f', 0, 64))
	}
	text := strconv.FormatFloat(value, 'f', -1, 64)
	switch text {
	case "1.5", "1.6", "1.7", "1.8":
		return ParseJavaVersion(text)
	default:
		return nil, fmt.Errorf("ambiguous java version %s, quote it as a string", text)
	}
}

func decodeFormat(value any) (any, error) {
	switch typed := value.(type) {
	case Format:
		return ParseFormat(string(typed))
	case string:
		return ParseFormat(typed)
	default:
		return nil, errWrongType
	}
}

func decodeSignature(value any) (any, error) {
	switch typed := value.(type) {
	case Signature:
		return ParseSignature(string(typed))
	case string:
		return ParseSignature(typed)
	default:
		return nil, errWrongType
	}
}

func decodeDocumentation(value any) (any, error) {
	switch typed := value.(type) {
	case Documentation:
		return ParseDocumentation(string(typed))
	case string:
		return ParseDocumentation(typed)
	default:
		return nil, errWrongType
	}
}

func decodeStringSet(value any) (any, error) {
	switch typed := value.(type) {
	case *StringSet:
		return typed.Clone(), nil
	case []string:
		return NewStringSet(typed...), nil
	case []any:
		set := NewStringSet()
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("set member %v is %T, not string", item, item)
			}
			set.Add(text)
		}
		return set, nil
	default:
		return nil, errWrongType
	}
}
