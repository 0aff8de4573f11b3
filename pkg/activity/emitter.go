package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "settings"

// Config controls emission defaults.
type Config struct {
	Enabled bool
	Channel string
	// ActorID and TenantID are stamped on events that carry none.
	ActorID  string
	TenantID string
}

// Emitter fans out events to hooks while applying defaults.
type Emitter struct {
	hooks    Hooks
	enabled  bool
	channel  string
	actorID  string
	tenantID string
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	compacted := Compact(hooks)
	return &Emitter{
		hooks:    compacted,
		enabled:  cfg.Enabled && len(compacted) > 0,
		channel:  channel,
		actorID:  strings.TrimSpace(cfg.ActorID),
		tenantID: strings.TrimSpace(cfg.TenantID),
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit forwards the event to all hooks after filling configured defaults.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.tenantID
	}
	return e.hooks.Notify(ctx, event)
}
