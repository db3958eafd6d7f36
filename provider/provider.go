package provider

import "context"

// Provider is a named backend that can report whether it is usable.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a decoded config section.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// RequestResponse is a provider with a single call: one input, one output.
// A health probe and a transcription upload are both RequestResponse calls.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Middleware wraps a RequestResponse, typically to observe Execute.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares; the first one is outermost.
// Chain(a, b)(p) is a(b(p)).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Closeable is implemented by providers holding connections or clients.
type Closeable interface {
	Close(ctx context.Context) error
}

// CloseIfCloseable closes p when it implements Closeable.
func CloseIfCloseable(ctx context.Context, p any) error {
	if c, ok := p.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
