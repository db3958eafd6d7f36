package observability

import (
	"context"
	"errors"
	"fmt"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup installs OTLP tracer and meter providers when cfg.Enabled is set.
// When disabled it returns a no-op shutdown and leaves the global providers alone.
func Setup(ctx context.Context, serviceName, serviceVersion, environment string, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := NewResource(serviceName, serviceVersion, environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp, err := InitTracer(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
