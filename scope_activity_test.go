package metalava

import (
	"errors"
	"testing"

	"github.com/goliatone/go-metalava/pkg/activity"
	"github.com/google/go-cmp/cmp"
)

func TestScopeEmitsUpdatedWithOldAndNewValues(t *testing.T) {
	capture := &activity.CaptureHook{}
	root := NewScope(":", nil, WithActivityHooks(activity.Hooks{capture}), WithScopeLabel("Root"), WithProjectVersion("2.3.0"))

	root.SetDocumentation(DocumentationPublic)

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	event := events[0]
	if event.Verb != activity.VerbSettingUpdated {
		t.Fatalf("expected %s, got %s", activity.VerbSettingUpdated, event.Verb)
	}
	if event.ObjectType != activity.ObjectTypeSetting || event.ObjectID != ":#documentation" {
		t.Fatalf("unexpected object %s %s", event.ObjectType, event.ObjectID)
	}
	if event.Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", event.Channel)
	}
	want := map[string]any{
		"key":             "documentation",
		"scope_name":      ":",
		"scope_depth":     0,
		"scope_label":     "Root",
		"project_version": "2.3.0",
		"old_value":       "protected",
		"new_value":       "public",
	}
	if diff := cmp.Diff(want, event.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeEmitsMaterializeThenUpdate(t *testing.T) {
	capture := &activity.CaptureHook{}
	root := NewScope(":", nil, WithActivityHooks(activity.Hooks{capture}))
	root.SetHiddenPackages("a")
	child := NewScope(":app", root)

	child.AddHiddenPackages("b")
	child.AddHiddenPackages("b")

	wantVerbs := []string{
		activity.VerbSettingUpdated,
		activity.VerbSettingMaterialized,
		activity.VerbSettingUpdated,
	}
	if diff := cmp.Diff(wantVerbs, capture.Verbs()); diff != "" {
		t.Fatalf("verbs mismatch (-want +got):\n%s", diff)
	}
	events := capture.Events()
	if events[1].ObjectID != ":app#hiddenPackages" {
		t.Fatalf("unexpected object id %s", events[1].ObjectID)
	}
	if diff := cmp.Diff([]string{"a"}, events[1].Metadata["new_value"]); diff != "" {
		t.Fatalf("materialized value mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, events[2].Metadata["new_value"]); diff != "" {
		t.Fatalf("updated value mismatch (-want +got):\n%s", diff)
	}
	if events[2].Metadata["scope_depth"] != 1 {
		t.Fatalf("expected depth 1, got %v", events[2].Metadata["scope_depth"])
	}
}

func TestScopeEmitsCleared(t *testing.T) {
	capture := &activity.CaptureHook{}
	scope := NewScope(":", nil, WithActivity(activity.Hooks{capture}, activity.Config{Enabled: true, ActorID: "ci"}))
	scope.SetFormat(FormatV3)
	scope.Unset(KeyFormat)
	scope.Unset(KeyFormat)

	events := capture.Events()
	if len(events) != 2 || events[1].Verb != activity.VerbSettingCleared {
		t.Fatalf("expected update then clear, got %v", capture.Verbs())
	}
	if events[1].Metadata["old_value"] != "v3" {
		t.Fatalf("expected old value v3, got %v", events[1].Metadata["old_value"])
	}
	if _, ok := events[1].Metadata["new_value"]; ok {
		t.Fatalf("cleared events carry no new value")
	}
	if events[1].ActorID != "ci" {
		t.Fatalf("expected configured actor, got %q", events[1].ActorID)
	}
}

func TestScopeLogsHookFailures(t *testing.T) {
	capture := &activity.CaptureHook{Err: errors.New("sink down")}
	logger := &recordingLogger{}
	scope := NewScope(":", nil, WithActivityHooks(activity.Hooks{capture}), WithLogger(logger))

	if err := scope.Set(KeyReportWarningsAsErrors, true); err != nil {
		t.Fatalf("hook failures must not fail writes: %v", err)
	}
	if !scope.ReportWarningsAsErrors() {
		t.Fatalf("write must be applied despite hook failure")
	}
	want := []string{"setting assigned", "settings activity hook failed"}
	if diff := cmp.Diff(want, logger.messages); diff != "" {
		t.Fatalf("log messages mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeWithoutHooksEmitsNothing(t *testing.T) {
	scope := NewScope(":", nil, WithActivityHooks(nil))
	if scope.cfg.emitter.enabled() {
		t.Fatalf("expected emitter to be disabled without hooks")
	}
	scope.SetVersion("1.0.0")
}
