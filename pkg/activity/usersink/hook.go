// Package usersink forwards settings activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-metalava/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts settings events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// DefaultActor is used when an event carries no parseable actor id.
	DefaultActor uuid.UUID
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := parseUUID(normalized.ActorID)
	if actor == uuid.Nil {
		actor = h.DefaultActor
	}

	record := usertypes.ActivityRecord{
		ActorID:    actor,
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	return h.Sink.Log(ctx, record)
}

// recordData copies event metadata and keeps a non-uuid actor name, which
// would otherwise be lost in the uuid-typed record.
func recordData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+1)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.ActorID != "" && parseUUID(event.ActorID) == uuid.Nil {
		data["actor"] = event.ActorID
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
