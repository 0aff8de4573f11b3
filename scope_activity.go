package metalava

import (
	"context"

	"github.com/goliatone/go-metalava/pkg/activity"
)

type activityEmitter struct {
	emitter *activity.Emitter
}

func (e *activityEmitter) enabled() bool {
	return e != nil && e.emitter.Enabled()
}

// WithActivityHooks emits settings events to hooks on every write. Nil hooks
// are dropped.
func WithActivityHooks(hooks activity.Hooks) ScopeOption {
	return WithActivity(hooks, activity.Config{Enabled: true})
}

// WithActivity emits settings events to hooks using cfg for channel and
// actor defaults.
func WithActivity(hooks activity.Hooks, cfg activity.Config) ScopeOption {
	emitter := activity.NewEmitter(hooks, cfg)
	return func(sc *scopeConfig) {
		if !emitter.Enabled() {
			sc.emitter = nil
			return
		}
		sc.emitter = &activityEmitter{emitter: emitter}
	}
}

func (s *Scope) scopeContext() activity.ScopeContext {
	return activity.ScopeContext{
		Name:           s.Name,
		Label:          s.Label,
		Depth:          s.Depth(),
		ProjectVersion: s.ProjectVersion(),
		Metadata:       copyMetadata(s.Metadata),
	}
}

func (s *Scope) emitUpdated(d descriptor, old, next any) {
	if !s.cfg.emitter.enabled() {
		return
	}
	s.emit(activity.BuildSettingUpdatedEvent(s.eventInput(d, old, next)))
}

func (s *Scope) emitCleared(d descriptor, old any) {
	if !s.cfg.emitter.enabled() {
		return
	}
	s.emit(activity.BuildSettingClearedEvent(s.eventInput(d, exportValue(old), nil)))
}

func (s *Scope) emitMaterialized(d descriptor, seeded []string) {
	if !s.cfg.emitter.enabled() {
		return
	}
	s.emit(activity.BuildSettingMaterializedEvent(s.eventInput(d, nil, seeded)))
}

func (s *Scope) eventInput(d descriptor, old, next any) activity.SettingEventInput {
	return activity.SettingEventInput{
		Key:      string(d.key),
		OldValue: renderValue(old),
		NewValue: renderValue(next),
		Scope:    s.scopeContext(),
	}
}

// emit never fails the write that triggered it; hook errors are logged.
func (s *Scope) emit(event activity.Event) {
	if err := s.cfg.emitter.emitter.Emit(context.Background(), event); err != nil {
		s.cfg.logger.Warn("settings activity hook failed", "scope", s.Name, "verb", event.Verb, "error", err)
	}
}
