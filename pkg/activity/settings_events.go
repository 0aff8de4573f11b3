package activity

import (
	"strings"
	"time"
)

const (
	VerbSettingUpdated      = "settings.updated"
	VerbSettingCleared      = "settings.cleared"
	VerbSettingMaterialized = "settings.materialized"

	// ObjectTypeSetting is the object type of every settings event.
	ObjectTypeSetting = "metalava.setting"
)

// ScopeContext captures the scope a change was applied to.
type ScopeContext struct {
	Name           string
	Label          string
	Depth          int
	ProjectVersion string
	Metadata       map[string]any
}

// SettingEventInput describes the common fields of settings events.
type SettingEventInput struct {
	ActorID    string
	TenantID   string
	Channel    string
	Key        string
	OldValue   any
	NewValue   any
	Scope      ScopeContext
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSettingUpdatedEvent describes a local assignment or collection change.
func BuildSettingUpdatedEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbSettingUpdated, input)
}

// BuildSettingClearedEvent describes removal of a local override.
func BuildSettingClearedEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbSettingCleared, input)
}

// BuildSettingMaterializedEvent describes a collection copied down from the
// parent chain into a scope.
func BuildSettingMaterializedEvent(input SettingEventInput) Event {
	return buildSettingEvent(VerbSettingMaterialized, input)
}

// ObjectID composes the "<scope>#<key>" identifier used for settings events.
func ObjectID(scope, key string) string {
	scope = strings.TrimSpace(scope)
	key = strings.TrimSpace(key)
	switch {
	case scope == "" && key == "":
		return ObjectTypeSetting
	case scope == "":
		return key
	case key == "":
		return scope
	default:
		return scope + "#" + key
	}
}

func buildSettingEvent(verb string, input SettingEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = input.Key
	}
	if input.Scope.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope_name"] = input.Scope.Name
		metadata["scope_depth"] = input.Scope.Depth
		if input.Scope.Label != "" {
			metadata["scope_label"] = input.Scope.Label
		}
		if input.Scope.ProjectVersion != "" {
			metadata["project_version"] = input.Scope.ProjectVersion
		}
		if len(input.Scope.Metadata) > 0 {
			metadata["scope_metadata"] = cloneMap(input.Scope.Metadata)
		}
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeSetting,
		ObjectID:   ObjectID(input.Scope.Name, input.Key),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
