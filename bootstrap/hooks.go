package bootstrap

import (
	"context"
	"errors"
	"fmt"
)

// Hook is a lifecycle callback run at startup or shutdown.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run before the task, in order. The first
// failing hook aborts the run.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task, in reverse registration
// order. All of them run even when one fails.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}

func runStopHooks(ctx context.Context, hooks []Hook) error {
	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop hook %d failed: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
