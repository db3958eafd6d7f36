package whisperx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/util"
	"github.com/kbukum/scribe/version"
)

const headerRequestID = "X-Request-ID"

type transcribeResponse struct {
	Success bool `json:"success"`
	transcription.Result
	Error string `json:"error"`
}

type uploadMapping = provider.Mapping[transcription.Request, *transcription.Result, httpclient.Request, *httpclient.Response]

type healthResponse struct {
	transcription.Health
	Error string `json:"error"`
}

// Provider talks to a WhisperX server.
type Provider struct {
	cfg        Config
	client     *httpclient.Adapter
	transcribe provider.RequestResponse[transcription.Request, *transcription.Result]
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a WhisperX provider. Unset fields take defaults.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := httpclient.New(httpclient.Config{
		Name:      cfg.Name,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Headers:   cfg.Headers,
		UserAgent: version.UserAgent(),
	}, opts...)
	if err != nil {
		return nil, err
	}

	p := &Provider{cfg: cfg, client: client}
	p.transcribe = provider.Adapt[transcription.Request, *transcription.Result, httpclient.Request, *httpclient.Response](
		client, cfg.Name, uploadMapping{
			Request:  p.buildUpload,
			Response: p.parseResult,
			Error:    func(err error) error { return p.classify(err, "transcription failed") },
		})
	return p, nil
}

// Factory returns a provider.Factory that decodes a config map and
// creates a Provider.
func Factory(opts ...httpclient.Option) provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		cfg, err := DecodeConfig(raw)
		if err != nil {
			return nil, fmt.Errorf("whisperx: decode config: %w", err)
		}
		return NewProvider(cfg, opts...)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.cfg.Name }

// IsAvailable reports whether the health endpoint answers with success.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.Health(ctx)
	return err == nil
}

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// Health queries the health endpoint within HealthTimeout. A 2xx answer
// that carries an "error" field is a remote failure.
func (p *Provider) Health(ctx context.Context) (*transcription.Health, error) {
	if p.cfg.HealthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.HealthTimeout)
		defer cancel()
	}

	resp, err := httpclient.Get[healthResponse](p.client, ctx, p.cfg.HealthPath,
		httpclient.WithHeader(headerRequestID, requestID(ctx)))
	if err != nil {
		return nil, p.classify(err, "health check failed")
	}
	if resp.Data.Error != "" {
		return nil, errors.Remote(p.Name(), resp.StatusCode, resp.Data.Error)
	}

	h := resp.Data.Health
	return &h, nil
}

// Transcribe uploads req.File and returns the parsed transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	return p.transcribe.Execute(ctx, req)
}

// Close releases idle connections.
func (p *Provider) Close(ctx context.Context) error {
	return p.client.Close(ctx)
}

func (p *Provider) buildUpload(ctx context.Context, req transcription.Request) (httpclient.Request, error) {
	return httpclient.Request{
		Method:  http.MethodPost,
		Path:    p.cfg.TranscribePath,
		Headers: map[string]string{headerRequestID: requestID(ctx)},
		Body: &httpclient.MultipartBody{
			Fields: map[string]string{
				"language": util.Coalesce(req.Language, p.cfg.Language),
				"model":    util.Coalesce(req.Model, p.cfg.Model),
			},
			Files: []httpclient.FileField{{
				FieldName:   p.cfg.FieldName,
				FileName:    req.File.Name,
				ContentType: req.File.MIMEType,
				Reader:      req.File.Content,
				Size:        req.File.Size,
			}},
		},
	}, nil
}

// parseResult decodes a 2xx transcription answer. An empty or malformed
// body is a decode error; a body carrying "error" is a remote failure.
func (p *Provider) parseResult(resp *httpclient.Response) (*transcription.Result, error) {
	body, err := httpclient.DecodeJSON[transcribeResponse](resp)
	if err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, errors.Remote(p.Name(), resp.StatusCode, body.Error)
	}

	result := body.Result
	return &result, nil
}

// classify maps transport-level errors onto the two remote outcome kinds.
// A status answer is REMOTE_ERROR with the service's error text when it
// sent one; everything else is TRANSPORT_FAILURE.
func (p *Provider) classify(err error, fallback string) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	if he, ok := httpclient.AsError(err); ok && he.Answered() {
		return errors.Remote(p.Name(), he.StatusCode, he.ServiceMessage(fallback)).WithCause(err)
	}

	return errors.Transport(p.Name(), err)
}

// requestID reuses the caller's request ID or mints a new one.
func requestID(ctx context.Context) string {
	if id := logger.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
