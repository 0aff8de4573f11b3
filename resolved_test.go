package metalava

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveCapturesEffectiveSettings(t *testing.T) {
	root := NewScope(":", nil, WithProjectVersion("2.3.0"))
	root.AddHiddenAnnotations("androidx.annotation.RestrictTo")
	child := NewScope(":app", root)
	child.SetMetalavaJarPath("/tools/metalava.jar")
	child.SetJavaSourceLevel(Java8)
	child.AddHiddenPackages("com.example.internal")

	want := Resolved{
		Version:                 DefaultToolVersion,
		MetalavaJarPath:         Some("/tools/metalava.jar"),
		JavaSourceLevel:         Java8,
		Format:                  FormatV4,
		Signature:               SignatureAPI,
		Filename:                "api/2.3.0.api",
		Documentation:           DocumentationProtected,
		OutputKotlinNulls:       true,
		OutputDefaultValues:     true,
		IncludeSignatureVersion: true,
		HiddenPackages:          []string{"com.example.internal"},
		HiddenAnnotations:       []string{"androidx.annotation.RestrictTo"},
		AndroidVariantName:      DefaultAndroidVariant,
	}
	if diff := cmp.Diff(want, child.Resolve(), cmp.AllowUnexported(Optional[string]{})); diff != "" {
		t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotRendersPlainValues(t *testing.T) {
	scope := NewScope(":", nil)
	scope.SetHiddenPackages("b", "a")
	scope.SetJavaSourceLevel(Java8)

	snapshot := scope.Snapshot()
	if _, ok := snapshot["metalavaJarPath"]; ok {
		t.Fatalf("absent jar path must be omitted")
	}
	if len(snapshot) != len(Keys())-1 {
		t.Fatalf("expected %d entries, got %d", len(Keys())-1, len(snapshot))
	}
	if snapshot["javaSourceLevel"] != "1.8" || snapshot["format"] != "v4" || snapshot["documentation"] != "protected" {
		t.Fatalf("unexpected enum rendering %#v", snapshot)
	}
	if diff := cmp.Diff([]string{"a", "b"}, snapshot["hiddenPackages"]); diff != "" {
		t.Fatalf("hidden packages mismatch (-want +got):\n%s", diff)
	}
	if len(scope.Locals()) != 2 {
		t.Fatalf("snapshot must not write locals")
	}

	locals := scope.RenderLocals()
	want := map[string]any{"hiddenPackages": []string{"a", "b"}, "javaSourceLevel": "1.8"}
	if diff := cmp.Diff(want, locals); diff != "" {
		t.Fatalf("render locals mismatch (-want +got):\n%s", diff)
	}

	restored := NewScope(":", nil)
	for key, value := range locals {
		parsed, _ := ParseKey(key)
		if err := restored.Set(parsed, value); err != nil {
			t.Fatalf("rendered locals must feed back through Set: %v", err)
		}
	}
	if diff := cmp.Diff(snapshot, restored.Snapshot()); diff != "" {
		t.Fatalf("restored snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestToolSemver(t *testing.T) {
	scope := NewScope(":", nil)
	version, err := scope.Resolve().ToolSemver()
	if err != nil {
		t.Fatalf("semver: %v", err)
	}
	if version.Major() != 1 || version.Prerelease() != "alpha04" {
		t.Fatalf("unexpected version %s", version)
	}

	scope.SetVersion("not a version")
	if _, err := scope.Resolve().ToolSemver(); err == nil {
		t.Fatalf("expected parse error")
	}
}
