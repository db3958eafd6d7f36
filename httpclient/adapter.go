package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/scribe/provider"
)

var (
	_ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)
	_ provider.Closeable                           = (*Adapter)(nil)
)

// Adapter sends single-attempt HTTP requests against a base URL. It is also a
// provider.RequestResponse, so backends can wrap it with provider.Adapt.
type Adapter struct {
	httpClient *http.Client
	config     Config
}

// Option configures an Adapter after construction.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is
// overwritten by Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Adapter) {
		if hc != nil {
			hc.Timeout = a.config.Timeout
			a.httpClient = hc
		}
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	c := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do executes an HTTP request once and returns the complete response.
// For non-2xx responses both the response and a status *Error are returned.
func (c *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, NewTimeoutError(fmt.Errorf("read response body: %w", err))
		}
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if statusErr := CheckStatus(resp.StatusCode, body); statusErr != nil {
		return result, statusErr
	}

	return result, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Adapter) Unwrap() *http.Client {
	return c.httpClient
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (c *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := c.ResolveURL(req.Path)

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	// Request-specific headers override defaults.
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// ResolveURL joins path onto the configured BaseURL unless path is absolute.
func (c *Adapter) ResolveURL(path string) string {
	if c.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// isTimeout reports whether err carries a net timeout.
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// --- provider.Provider interface ---

// Name returns the adapter name (implements provider.Provider).
func (c *Adapter) Name() string {
	return c.config.Name
}

// IsAvailable reports whether the adapter can accept requests (implements provider.Provider).
func (c *Adapter) IsAvailable(_ context.Context) bool {
	return c.httpClient != nil
}

// --- provider.RequestResponse[Request, *Response] interface ---

// Execute sends an HTTP request and returns the response (implements provider.RequestResponse).
// This is equivalent to Do() but satisfies the provider interface for composition.
func (c *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Do(ctx, req)
}

// --- provider.Closeable interface ---

// Close releases idle connections held by the adapter (implements provider.Closeable).
func (c *Adapter) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (c *Adapter) GetConfig() Config {
	return c.config
}
