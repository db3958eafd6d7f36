// Package observability exports traces and metrics for scribe over OTLP/HTTP.
//
// Setup installs both providers from a Config section and is a no-op when
// export is disabled:
//
//	shutdown, err := observability.Setup(ctx, "scribe", version.Short(), "dev", cfg)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "scribe.transcribe")
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("scribe"))
//	metrics.RecordOperation(ctx, "whisperx", "transcribe", "ok", duration)
package observability
