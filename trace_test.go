package metalava

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveWithTraceReportsSupplyingScope(t *testing.T) {
	root := NewScope(":", nil, WithScopeLabel("Root"))
	app := NewScope(":app", root)
	core := NewScope(":app:core", app)
	root.SetDocumentation(DocumentationPublic)
	app.SetDocumentation(DocumentationPrivate)

	value, trace, err := core.ResolveWithTrace(KeyDocumentation)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if value != DocumentationPrivate {
		t.Fatalf("expected private, got %v", value)
	}
	want := Trace{
		Key:    KeyDocumentation,
		Value:  "private",
		Source: ":app",
		Layers: []Provenance{
			{Scope: ":app:core", Depth: 2},
			{Scope: ":app", Depth: 1, Value: "private", Found: true},
			{Scope: ":", Label: "Root", Depth: 0, Value: "public", Found: true},
			{Scope: DefaultSource, Depth: -1, Value: "protected", Found: true, Default: true},
		},
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveWithTraceFallsBackToDefault(t *testing.T) {
	root := NewScope(":", nil, WithProjectVersion("2.3.0"))
	child := NewScope(":app", root)

	value, trace, err := child.ResolveWithTrace(KeyFilename)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if value != "api/2.3.0.api" || trace.Source != DefaultSource {
		t.Fatalf("expected default filename, got %v from %s", value, trace.Source)
	}

	_, trace, err = child.ResolveWithTrace(KeyMetalavaJarPath)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if trace.Source != "" || trace.Value != nil {
		t.Fatalf("absent setting must have no source, got %+v", trace)
	}
	if last := trace.Layers[len(trace.Layers)-1]; !last.Default || last.Found {
		t.Fatalf("expected an unfound default entry, got %+v", last)
	}

	if _, _, err := child.ResolveWithTrace("colour"); !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	root := NewScope(":", nil)
	child := NewScope(":app", root)
	child.SetAndroidVariantName("release")

	_, trace, err := child.ResolveWithTrace(KeyAndroidVariantName)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if diff := cmp.Diff(trace, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func BenchmarkResolveWithTraceDeepChain(b *testing.B) {
	scope := NewScope(":", nil)
	scope.SetFormat(FormatV3)
	for i := 0; i < 16; i++ {
		scope = NewScope(":p", scope)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := scope.ResolveWithTrace(KeyFormat); err != nil {
			b.Fatalf("trace: %v", err)
		}
	}
}
