package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/provider"
)

type echoProvider struct {
	name string
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, in string) (string, error) {
	return "echo:" + in, nil
}

type failingProvider struct {
	err error
}

func (p *failingProvider) Name() string                       { return "fail" }
func (p *failingProvider) IsAvailable(_ context.Context) bool { return false }
func (p *failingProvider) Execute(_ context.Context, _ string) (string, error) {
	return "", p.err
}

func jsonLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
}

// --- Chain tests ---

func TestChain_Empty(t *testing.T) {
	p := &echoProvider{name: "test"}
	wrapped := provider.Chain[string, string]()(p)
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker[string, string]{inner: inner, tag: tag, order: &order}
		}
	}

	p := &echoProvider{name: "test"}
	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(p)

	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

type orderTracker[I, O any] struct {
	inner provider.RequestResponse[I, O]
	tag   string
	order *[]string
}

func (o *orderTracker[I, O]) Name() string                         { return o.inner.Name() }
func (o *orderTracker[I, O]) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker[I, O]) Execute(ctx context.Context, input I) (O, error) {
	*o.order = append(*o.order, o.tag+":before")
	result, err := o.inner.Execute(ctx, input)
	*o.order = append(*o.order, o.tag+":after")
	return result, err
}

// --- WithLogging tests ---

func TestWithLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	p := &echoProvider{name: "whisperx"}
	wrapped := provider.WithLogging[string, string](jsonLogger(&buf))(p)

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "debug" || entry["provider"] != "whisperx" {
		t.Errorf("unexpected log entry: %v", entry)
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms field")
	}
}

func TestWithLogging_ErrorCarriesCode(t *testing.T) {
	var buf bytes.Buffer
	p := &failingProvider{err: apperrors.Remote("whisperx", 500, "bad audio")}
	wrapped := provider.WithLogging[string, string](jsonLogger(&buf))(p)

	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q", buf.String())
	}
	if entry["level"] != "error" {
		t.Errorf("expected error level, got %v", entry["level"])
	}
	if entry["error_code"] != "REMOTE_ERROR" {
		t.Errorf("expected error_code REMOTE_ERROR, got %v", entry["error_code"])
	}
	if !strings.Contains(entry["error"].(string), "bad audio") {
		t.Errorf("expected error message, got %v", entry["error"])
	}
}

func TestWithLogging_DelegatesIsAvailable(t *testing.T) {
	wrapped := provider.WithLogging[string, string](logger.Nop())(&failingProvider{})
	if wrapped.IsAvailable(context.Background()) {
		t.Fatal("expected IsAvailable to delegate to inner provider")
	}
}

// --- WithTracing tests ---

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestWithTracing_Success(t *testing.T) {
	recorder := withRecorder(t)
	wrapped := provider.WithTracing[string, string]("scribe", "transcribe")(&echoProvider{name: "whisperx"})

	if _, err := wrapped.Execute(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "scribe.whisperx.transcribe" {
		t.Errorf("span name = %q, want scribe.whisperx.transcribe", spans[0].Name())
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("did not expect error status")
	}
}

func TestWithTracing_Error(t *testing.T) {
	recorder := withRecorder(t)
	wrapped := provider.WithTracing[string, string]("scribe", "transcribe")(
		&failingProvider{err: apperrors.Transport("whisperx", errors.New("connection refused"))})

	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("expected one errored span, got %v", spans)
	}
	var code string
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == observability.AttrErrorCode {
			code = kv.Value.AsString()
		}
	}
	if code != string(apperrors.ErrCodeTransport) {
		t.Errorf("error.code attribute = %q", code)
	}
}

// --- WithMetrics tests ---

func TestWithMetrics_RecordsOperationsAndErrors(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	ok := provider.WithMetrics[string, string](metrics, "transcribe")(&echoProvider{name: "whisperx"})
	bad := provider.WithMetrics[string, string](metrics, "transcribe")(&failingProvider{err: apperrors.Transport("whisperx", errors.New("refused"))})

	ctx := context.Background()
	_, _ = ok.Execute(ctx, "a")
	_, _ = bad.Execute(ctx, "b")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	var errType string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "error.total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				if v, found := dp.Attributes.Value("type"); found {
					errType = v.AsString()
				}
			}
		}
	}
	if errType != "TRANSPORT_FAILURE" {
		t.Errorf("expected error.total typed TRANSPORT_FAILURE, got %q", errType)
	}
}

func TestWithMetrics_DelegatesIsAvailable(t *testing.T) {
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	wrapped := provider.WithMetrics[string, string](metrics, "transcribe")(&echoProvider{name: "avail"})
	if !wrapped.IsAvailable(context.Background()) {
		t.Fatal("expected IsAvailable to delegate to inner provider")
	}
}

// --- Full composition ---

func TestChain_AllMiddlewares(t *testing.T) {
	withRecorder(t)
	metrics, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.Nop()),
		provider.WithMetrics[string, string](metrics, "transcribe"),
		provider.WithTracing[string, string]("scribe", "transcribe"),
	)(&echoProvider{name: "full-stack"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q", result)
	}
	if wrapped.Name() != "full-stack" {
		t.Errorf("expected name to pass through, got %q", wrapped.Name())
	}
}
