package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback. Services hang setup and teardown work on
// the app's phases without bootstrap knowing what that work is.
type Hook func(ctx context.Context) error

// OnStart hooks run once every component has started, before pipelines
// are composed.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady hooks run after the ready check, when the service is about to
// start accepting runs.
func (a *App) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop hooks run during graceful shutdown before components stop, in
// time to drain in-flight runs.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks runs the phase's hooks in registration order, stopping at the
// first failure.
func runHooks(ctx context.Context, phase string, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook %d: %w", phase, i, err)
		}
	}
	return nil
}
