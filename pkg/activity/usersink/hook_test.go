package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-metalava/pkg/activity"
	"github.com/goliatone/go-metalava/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildSettingUpdatedEvent(activity.SettingEventInput{
		ActorID:    actorID.String(),
		TenantID:   tenantID.String(),
		Channel:    "settings",
		Key:        "documentation",
		NewValue:   "public",
		Scope:      activity.ScopeContext{Name: ":app", Depth: 1},
		OccurredAt: now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity fields: %+v", record)
	}
	if record.Verb != activity.VerbSettingUpdated || record.ObjectType != activity.ObjectTypeSetting || record.ObjectID != ":app#documentation" {
		t.Fatalf("unexpected object fields: %+v", record)
	}
	if record.Channel != "settings" || !record.OccurredAt.Equal(now) {
		t.Fatalf("unexpected channel or timestamp: %+v", record)
	}
	if record.Data["new_value"] != "public" || record.Data["key"] != "documentation" {
		t.Fatalf("expected metadata copied, got %+v", record.Data)
	}
	if _, ok := record.Data["actor"]; ok {
		t.Fatalf("uuid actors must not be duplicated into data: %+v", record.Data)
	}
}

func TestHookNotifyKeepsNamedActorAndDefault(t *testing.T) {
	sink := &recordingSink{}
	fallback := uuid.New()
	hook := usersink.Hook{Sink: sink, DefaultActor: fallback}

	event := activity.Event{
		Verb:       activity.VerbSettingCleared,
		ActorID:    "ci-bot",
		ObjectType: activity.ObjectTypeSetting,
		ObjectID:   ":#format",
	}
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != fallback {
		t.Fatalf("expected default actor %s, got %s", fallback, record.ActorID)
	}
	if record.Data["actor"] != "ci-bot" {
		t.Fatalf("expected named actor preserved, got %+v", record.Data)
	}
	if record.OccurredAt.IsZero() {
		t.Fatalf("expected timestamp to be filled")
	}
}

func TestHookNotifySkipsIncompleteEventsAndNilSink(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}
	if err := hook.Notify(context.Background(), activity.Event{Verb: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected incomplete event to be dropped")
	}
	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("expected nil sink to be a no-op, got %v", err)
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}
	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbSettingUpdated,
		ObjectType: activity.ObjectTypeSetting,
		ObjectID:   "1",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
