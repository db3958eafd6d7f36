package transcription

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/provider"
)

// Progress statuses reported by Transcribe.
const (
	StatusUploading = "Uploading file..."
	StatusCompleted = "Transcription completed!"
)

// ProgressFunc receives human-readable status updates during Transcribe.
type ProgressFunc func(status string)

// Client validates audio locally and delegates health checks and
// transcription to a Provider. Every method returns an Outcome.
type Client struct {
	provider    Provider
	log         *logger.Logger
	metrics     *observability.Metrics
	serviceName string
	maxFileSize int64

	transcribe provider.RequestResponse[Request, *Result]
	health     provider.RequestResponse[struct{}, *Health]
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used by the client and its logging middleware.
func WithLogger(log *logger.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics records operation, error and upload metrics for backend calls.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithTracing wraps backend calls in spans named
// "{serviceName}.{provider}.{operation}".
func WithTracing(serviceName string) ClientOption {
	return func(c *Client) { c.serviceName = serviceName }
}

// WithMaxFileSize overrides DefaultMaxFileSize. Non-positive values are ignored.
func WithMaxFileSize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

// NewClient creates a Client over p.
func NewClient(p Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:    p,
		log:         logger.Nop(),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("transcription")

	c.transcribe = wrap[Request, *Result](c, &call[Request, *Result]{p: p, fn: p.Transcribe}, "transcribe")
	c.health = wrap[struct{}, *Health](c, &call[struct{}, *Health]{p: p, fn: func(ctx context.Context, _ struct{}) (*Health, error) {
		return p.Health(ctx)
	}}, "health")

	return c
}

// wrap applies the configured middleware, outermost first: logging,
// metrics, tracing.
func wrap[I, O any](c *Client, rr provider.RequestResponse[I, O], operation string) provider.RequestResponse[I, O] {
	mws := []provider.Middleware[I, O]{provider.WithLogging[I, O](c.log)}
	if c.metrics != nil {
		mws = append(mws, provider.WithMetrics[I, O](c.metrics, operation))
	}
	if c.serviceName != "" {
		mws = append(mws, provider.WithTracing[I, O](c.serviceName, operation))
	}
	return provider.Chain(mws...)(rr)
}

// Provider returns the backend the client delegates to.
func (c *Client) Provider() Provider { return c.provider }

// MaxFileSize returns the upload limit in bytes.
func (c *Client) MaxFileSize() int64 { return c.maxFileSize }

// CheckHealth queries the backend health endpoint. Any non-success status,
// network failure or malformed body yields a failed outcome.
func (c *Client) CheckHealth(ctx context.Context) Outcome[*Health] {
	h, err := c.health.Execute(ctx, struct{}{})
	if err != nil {
		return Fail[*Health](c.asCallError(err))
	}
	if h == nil {
		return Fail[*Health](errors.Transport(c.provider.Name(), fmt.Errorf("empty health response")))
	}
	return Succeed(h)
}

// IsValidAudioFile reports whether file passes the format check.
func (c *Client) IsValidAudioFile(file AudioFile) bool {
	return IsValidAudioFile(file)
}

// Transcribe validates file and uploads it. See TranscribeRequest.
func (c *Client) Transcribe(ctx context.Context, file AudioFile, progress ProgressFunc) Outcome[*Result] {
	return c.TranscribeRequest(ctx, Request{File: file}, progress)
}

// TranscribeRequest checks the format and then the size of req.File; a file
// failing either check is rejected without any network call. Otherwise
// progress receives StatusUploading before the upload and StatusCompleted
// only after a successful response has been parsed.
func (c *Client) TranscribeRequest(ctx context.Context, req Request, progress ProgressFunc) Outcome[*Result] {
	fileFields := logger.Fields(
		logger.FieldFileName, req.File.Name,
		logger.FieldFileSize, req.File.Size,
		logger.FieldMIMEType, req.File.MIMEType,
	)
	log := c.log.WithContext(ctx)

	if appErr := ValidateAudioFile(req.File, c.maxFileSize); appErr != nil {
		fileFields[logger.FieldErrorCode] = string(appErr.Code)
		log.Warn("audio file rejected", fileFields)
		return Fail[*Result](appErr)
	}

	if progress != nil {
		progress(StatusUploading)
	}
	if c.metrics != nil {
		c.metrics.RecordUpload(ctx, c.provider.Name(), normalizeMIME(req.File.MIMEType), req.File.Size)
	}
	log.Debug("uploading audio file", fileFields)

	result, err := c.transcribe.Execute(ctx, req)
	if err != nil {
		return Fail[*Result](c.asCallError(err))
	}
	if result == nil {
		return Fail[*Result](errors.Transport(c.provider.Name(), fmt.Errorf("empty transcription response")))
	}

	if progress != nil {
		progress(StatusCompleted)
	}
	log.Info("transcription completed", logger.Fields(
		logger.FieldFileName, req.File.Name,
		logger.FieldLanguage, result.Language,
		logger.FieldSegments, len(result.Segments),
	))
	return Succeed(result)
}

// FormatSegments prepares segments for display.
func (c *Client) FormatSegments(segments []Segment) []FormattedSegment {
	return FormatSegments(segments)
}

// FormatTime renders seconds as MM:SS.
func (c *Client) FormatTime(seconds float64) string {
	return FormatTime(seconds)
}

// Close releases resources held by the backend, if any.
func (c *Client) Close(ctx context.Context) error {
	return provider.CloseIfCloseable(ctx, c.provider)
}

// asCallError classifies a backend error. Anything that is not already an
// AppError happened while calling out, so it is a transport failure.
func (c *Client) asCallError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.Transport(c.provider.Name(), err)
}

// call exposes one Provider method as a provider.RequestResponse so it can
// be wrapped by middleware.
type call[I, O any] struct {
	p  Provider
	fn func(ctx context.Context, in I) (O, error)
}

func (c *call[I, O]) Name() string                         { return c.p.Name() }
func (c *call[I, O]) IsAvailable(ctx context.Context) bool { return c.p.IsAvailable(ctx) }
func (c *call[I, O]) Execute(ctx context.Context, in I) (O, error) {
	return c.fn(ctx, in)
}
