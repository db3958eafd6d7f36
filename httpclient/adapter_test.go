package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/scribe/provider"
)

func TestAdapter_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/health" {
			t.Errorf("expected /api/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/api/health",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected IsSuccess=true, got status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Text(), "healthy") {
		t.Errorf("response body should contain healthy, got %s", resp.Text())
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected flattened Content-Type header, got %v", resp.Headers)
	}
}

func TestAdapter_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(201)
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/jobs",
		Body:   map[string]string{"language": "en"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestAdapter_Do_Headers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Client"); got != "scribe" {
			t.Errorf("expected X-Client=scribe, got %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("expected X-Request-ID=req-1, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "scribe/test" {
			t.Errorf("expected User-Agent=scribe/test, got %q", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL:   srv.URL,
		UserAgent: "scribe/test",
		Headers:   map[string]string{"X-Client": "scribe", "X-Request-ID": "default"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/",
		Headers: map[string]string{"X-Request-ID": "req-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "pt" {
			t.Errorf("expected language=pt, got %q", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/models",
		Query:  map[string]string{"language": "pt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		code    int
		checker func(error) bool
	}{
		{400, IsStatus},
		{401, IsStatus},
		{404, IsStatus},
		{413, IsStatus},
		{429, IsStatus},
		{500, IsStatus},
		{503, func(err error) bool { return StatusCode(err) == 503 }},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(`{"error":"bad audio"}`))
			}))
			defer srv.Close()

			c, err := New(Config{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			resp, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/transcribe"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.checker(err) {
				t.Errorf("error classification failed for HTTP %d: %v", tt.code, err)
			}
			if resp == nil {
				t.Fatal("expected response even on error")
			}
			if resp.StatusCode != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, resp.StatusCode)
			}
			if !strings.Contains(resp.Text(), "bad audio") {
				t.Errorf("expected body to be kept, got %q", resp.Text())
			}
		})
	}
}

func TestAdapter_Do_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_Do_ConfigTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_Do_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c, err := New(Config{BaseURL: "http://" + addr})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/health"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("connection errors carry no status, got %d", StatusCode(err))
	}
}

func TestAdapter_Do_FullURL_IgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: "http://should-not-be-used.invalid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   srv.URL + "/direct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAdapter_ResolveURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:5000", "/api/health", "http://localhost:5000/api/health"},
		{"http://localhost:5000/", "api/health", "http://localhost:5000/api/health"},
		{"http://localhost:5000", "https://other/x", "https://other/x"},
		{"", "/api/health", "/api/health"},
	}
	for _, tt := range tests {
		c, err := New(Config{BaseURL: tt.base})
		if err != nil {
			t.Fatal(err)
		}
		if got := c.ResolveURL(tt.path); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestAdapter_Do_StringAndByteBody(t *testing.T) {
	var gotCT []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = append(gotCT, r.Header.Get("Content-Type"))
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, body := range []any{"hello world", []byte("raw bytes")} {
		if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: body}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(gotCT) != 2 || gotCT[0] != "text/plain" || gotCT[1] != "" {
		t.Errorf("unexpected content types: %q", gotCT)
	}
}

func TestAdapter_WithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c, err := New(Config{Timeout: 3 * time.Second}, WithHTTPClient(hc))
	if err != nil {
		t.Fatal(err)
	}
	if c.Unwrap() != hc {
		t.Error("expected custom http.Client to be used")
	}
	if hc.Timeout != 3*time.Second {
		t.Errorf("expected timeout copied onto custom client, got %v", hc.Timeout)
	}
}

func TestResponse_Helpers(t *testing.T) {
	r := &Response{StatusCode: 200, Body: []byte("  ok \n")}
	if !r.IsSuccess() || r.IsError() {
		t.Error("200 should be success")
	}
	if r.Text() != "ok" {
		t.Errorf("Text() = %q, want ok", r.Text())
	}

	r2 := &Response{StatusCode: 500}
	if r2.IsSuccess() || !r2.IsError() {
		t.Error("500 should be error")
	}
}

func TestAdapter_ProviderSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	a, err := New(Config{Name: "whisperx-http", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	var rr provider.RequestResponse[Request, *Response] = a
	if rr.Name() != "whisperx-http" {
		t.Errorf("Name() = %q, want whisperx-http", rr.Name())
	}
	if !rr.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable=true")
	}

	resp, err := rr.Execute(context.Background(), Request{Method: http.MethodGet, Path: "/api/health"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	if cfg := a.GetConfig(); cfg.BaseURL != srv.URL {
		t.Errorf("GetConfig().BaseURL = %q, want %q", cfg.BaseURL, srv.URL)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
