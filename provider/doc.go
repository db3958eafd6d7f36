// Package provider implements a small generic provider framework for
// swappable transcription backends.
//
// Backends implement Provider and are created by name through a Registry of
// factories that decode a generic configuration map. Calls that take one
// input and return one output are modeled as RequestResponse[I, O].
//
// Opt-in lifecycle: providers holding resources implement Closeable.
//
// # Middleware
//
// Middleware[I, O] is a function that wraps a RequestResponse provider.
// Use Chain to compose multiple middlewares:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics, "transcribe"),
//	    provider.WithTracing[In, Out]("scribe", "transcribe"),
//	)(rawProvider)
//
// Adapt bridges a RequestResponse with backend types to domain types:
//
//	rr := provider.Adapt[Request, *Result, httpclient.Request, *httpclient.Response](
//	    httpAdapter, "whisperx", provider.Mapping[Request, *Result, httpclient.Request, *httpclient.Response]{
//	        Request:  toHTTPRequest,
//	        Response: fromHTTPResponse,
//	    })
//
// # Usage
//
//	reg := provider.NewRegistry[transcription.Provider]().
//	    MustRegister("whisperx", whisperx.Factory())
//	p, err := reg.Create("whisperx", cfg)
package provider
