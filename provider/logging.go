package provider

import (
	"context"
	"time"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

// WithLogging returns a Middleware that logs each Execute call.
// Logs: provider name, duration, and success/error status.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := map[string]interface{}{
		logger.FieldProvider: l.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}

	log := l.log.WithContext(ctx)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			fields[logger.FieldErrorCode] = string(appErr.Code)
		}
		log.Error("provider execute failed", fields)
	} else {
		log.Debug("provider execute ok", fields)
	}

	return output, err
}
