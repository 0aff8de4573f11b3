package metalava

import (
	"fmt"
	"strconv"
	"strings"
)

// Format selects the signature file format version written by Metalava.
type Format string

const (
	FormatV2 Format = "v2"
	FormatV3 Format = "v3"
	// FormatV4 is the latest stable format and the default.
	FormatV4 Format = "v4"
)

// Formats lists every recognised format, oldest first.
func Formats() []Format {
	return []Format{FormatV2, FormatV3, FormatV4}
}

// Flag returns the command line value Metalava expects for --format.
func (f Format) Flag() string {
	return string(f)
}

// ParseFormat accepts "v3", "V3" or "3".
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized != "" && !strings.HasPrefix(normalized, "v") {
		normalized = "v" + normalized
	}
	for _, candidate := range Formats() {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("metalava: unknown format %q", value)
}

// Signature selects which API surface is written.
type Signature string

const (
	SignatureAPI     Signature = "api"
	SignatureRemoved Signature = "removed"
)

// Signatures lists every recognised signature kind.
func Signatures() []Signature {
	return []Signature{SignatureAPI, SignatureRemoved}
}

// Flag returns the Metalava flag that writes this surface.
func (s Signature) Flag() string {
	if s == SignatureRemoved {
		return "--removed-api"
	}
	return "--api"
}

// ParseSignature accepts "api", "removed" and "removed-api" in any case.
func ParseSignature(value string) (Signature, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "api":
		return SignatureAPI, nil
	case "removed", "removed-api", "removed_api":
		return SignatureRemoved, nil
	default:
		return "", fmt.Errorf("metalava: unknown signature %q", value)
	}
}

// Documentation is the visibility threshold for documented members.
type Documentation string

const (
	DocumentationPublic    Documentation = "public"
	DocumentationProtected Documentation = "protected"
	DocumentationPackage   Documentation = "package"
	DocumentationPrivate   Documentation = "private"
)

// Documentations lists every visibility level from most to least restrictive.
func Documentations() []Documentation {
	return []Documentation{
		DocumentationPublic,
		DocumentationProtected,
		DocumentationPackage,
		DocumentationPrivate,
	}
}

// Flag returns the Metalava flag for the visibility level.
func (d Documentation) Flag() string {
	return "--" + string(d)
}

// ParseDocumentation accepts the level names in any case.
func ParseDocumentation(value string) (Documentation, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range Documentations() {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("metalava: unknown documentation level %q", value)
}

// JavaVersion is a Java language level. Levels up to 8 render with the
// legacy "1.x" spelling.
type JavaVersion int

const (
	Java8  JavaVersion = 8
	Java11 JavaVersion = 11
	Java17 JavaVersion = 17
	Java21 JavaVersion = 21
)

func (v JavaVersion) String() string {
	if v > 0 && v <= 8 {
		return fmt.Sprintf("1.%d", int(v))
	}
	return strconv.Itoa(int(v))
}

// ParseJavaVersion accepts "11", "1.8", "8" and the Gradle constant style
// "VERSION_1_8".
func ParseJavaVersion(value string) (JavaVersion, error) {
	normalized := strings.TrimSpace(value)
	normalized = strings.TrimPrefix(strings.ToUpper(normalized), "VERSION_")
	normalized = strings.ReplaceAll(normalized, "_", ".")
	normalized = strings.TrimPrefix(normalized, "1.")
	level, err := strconv.Atoi(normalized)
	if err != nil || level <= 0 {
		return 0, fmt.Errorf("metalava: invalid java version %q", value)
	}
	return JavaVersion(level), nil
}
