package provider

import "context"

// Mapping converts between a domain call [I, O] and a backend call [BI, BO].
type Mapping[I, O, BI, BO any] struct {
	Request  func(ctx context.Context, input I) (BI, error)
	Response func(output BO) (O, error)
	// Error, if set, rewrites every error the adapted call returns, whichever
	// stage produced it.
	Error func(err error) error
}

// Adapt exposes inner under name with domain types. The result composes with
// Chain and the logging, tracing and metrics middleware.
func Adapt[I, O, BI, BO any](inner RequestResponse[BI, BO], name string, m Mapping[I, O, BI, BO]) RequestResponse[I, O] {
	return &adapted[I, O, BI, BO]{inner: inner, name: name, m: m}
}

type adapted[I, O, BI, BO any] struct {
	inner RequestResponse[BI, BO]
	name  string
	m     Mapping[I, O, BI, BO]
}

func (a *adapted[I, O, BI, BO]) Name() string { return a.name }

func (a *adapted[I, O, BI, BO]) IsAvailable(ctx context.Context) bool {
	return a.inner.IsAvailable(ctx)
}

func (a *adapted[I, O, BI, BO]) Execute(ctx context.Context, input I) (O, error) {
	out, err := a.execute(ctx, input)
	if err != nil && a.m.Error != nil {
		err = a.m.Error(err)
	}
	return out, err
}

func (a *adapted[I, O, BI, BO]) execute(ctx context.Context, input I) (O, error) {
	var zero O

	in, err := a.m.Request(ctx, input)
	if err != nil {
		return zero, err
	}
	out, err := a.inner.Execute(ctx, in)
	if err != nil {
		return zero, err
	}
	return a.m.Response(out)
}
