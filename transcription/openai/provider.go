package openai

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/util"
)

// Provider transcribes through the OpenAI audio API.
type Provider struct {
	cfg        Config
	client     *goopenai.Client
	httpClient *http.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI provider. Unset fields take defaults.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = hc

	return &Provider{
		cfg:        cfg,
		client:     goopenai.NewClientWithConfig(clientCfg),
		httpClient: hc,
	}, nil
}

// Factory returns a provider.Factory that decodes a config map and
// creates a Provider.
func Factory() provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		cfg, err := DecodeConfig(raw)
		if err != nil {
			return nil, fmt.Errorf("openai: decode config: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.cfg.Name }

// IsAvailable reports whether the model listing succeeds.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.Health(ctx)
	return err == nil
}

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// Health lists models and reports whether the configured model is served.
func (p *Provider) Health(ctx context.Context) (*transcription.Health, error) {
	if p.cfg.HealthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.HealthTimeout)
		defer cancel()
	}

	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, p.classify(err, "health check failed")
	}

	h := &transcription.Health{Status: "healthy", Message: fmt.Sprintf("%d models available", len(models.Models))}
	for _, m := range models.Models {
		if m.ID == p.cfg.Model {
			return h, nil
		}
	}
	h.Status = "degraded"
	h.Message = fmt.Sprintf("model %s not listed", p.cfg.Model)
	return h, nil
}

// Transcribe uploads req.File and maps the verbose response to a Result.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	content := req.File.Content
	if content == nil {
		content = bytes.NewReader(nil)
	}

	areq := goopenai.AudioRequest{
		Model:    util.Coalesce(req.Model, p.cfg.Model),
		FilePath: req.File.Name,
		Reader:   content,
		Prompt:   p.cfg.Prompt,
		Language: util.Coalesce(req.Language, p.cfg.Language),
		Format:   goopenai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []goopenai.TranscriptionTimestampGranularity{
			goopenai.TranscriptionTimestampGranularitySegment,
			goopenai.TranscriptionTimestampGranularityWord,
		},
	}

	resp, err := p.client.CreateTranscription(ctx, areq)
	if err != nil {
		return nil, p.classify(err, "transcription failed")
	}
	return toResult(resp), nil
}

// Close releases idle connections.
func (p *Provider) Close(_ context.Context) error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// toResult converts the verbose response. Words arrive as one flat list;
// each is attached to the segment whose time span contains its start.
func toResult(resp goopenai.AudioResponse) *transcription.Result {
	result := &transcription.Result{
		Text:     resp.Text,
		Language: resp.Language,
		Segments: make([]transcription.Segment, 0, len(resp.Segments)),
	}

	w := 0
	for i, s := range resp.Segments {
		seg := transcription.Segment{Text: s.Text, Start: s.Start, End: s.End}
		last := i == len(resp.Segments)-1
		for w < len(resp.Words) && (last || resp.Words[w].Start < s.End) {
			word := resp.Words[w]
			start, end := word.Start, word.End
			seg.Words = append(seg.Words, transcription.Word{Word: word.Word, Start: &start, End: &end})
			w++
		}
		result.Segments = append(result.Segments, seg)
	}
	return result
}

// classify maps go-openai errors onto the two remote outcome kinds.
func (p *Provider) classify(err error, fallback string) error {
	var apiErr *goopenai.APIError
	if stderrors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return errors.Remote(p.Name(), apiErr.HTTPStatusCode, msg).WithCause(err)
	}

	var reqErr *goopenai.RequestError
	if stderrors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return errors.Remote(p.Name(), reqErr.HTTPStatusCode, fallback).WithCause(err)
	}

	return errors.Transport(p.Name(), err)
}
