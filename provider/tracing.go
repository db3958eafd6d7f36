package provider

import (
	"context"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/observability"
)

// WithTracing wraps each Execute in a span named
// "{serviceName}.{provider}.{operation}". Failed calls mark the span as an
// error and tag it with the AppError code when there is one.
func WithTracing[I, O any](serviceName, operation string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName, operation: operation}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
	operation   string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	name := t.inner.Name()
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+name+"."+t.operation)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrProviderName, name)
	observability.SetSpanAttribute(ctx, observability.AttrOperation, t.operation)

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
		}
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
