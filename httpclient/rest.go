package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

var errEmptyBody = errors.New("empty response body")

// TypedResponse is a response whose JSON body was decoded into T.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
	Raw        []byte
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader sets a header on one request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// Get performs a GET and decodes the JSON answer into T.
//
// A 2xx answer must carry a decodable body, otherwise a decode error is
// returned. A non-2xx answer returns the status error together with a
// response whose Data holds whatever part of the body decoded.
func Get[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: http.MethodGet, Path: path}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if err != nil {
		if resp == nil {
			return nil, err
		}
		typed := newTyped[T](resp)
		_ = json.Unmarshal(resp.Body, &typed.Data)
		return typed, err
	}

	data, err := DecodeJSON[T](resp)
	if err != nil {
		return nil, err
	}
	typed := newTyped[T](resp)
	typed.Data = data
	return typed, nil
}

// DecodeJSON decodes a successful response body. An empty or malformed
// body yields a decode error.
func DecodeJSON[T any](resp *Response) (T, error) {
	var data T
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return data, NewDecodeError(resp.StatusCode, resp.Body, errEmptyBody)
	}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return data, NewDecodeError(resp.StatusCode, resp.Body, err)
	}
	return data, nil
}

func newTyped[T any](resp *Response) *TypedResponse[T] {
	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Raw:        resp.Body,
	}
}
