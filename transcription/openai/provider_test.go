package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/transcription"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "english",
  "duration": 4.2,
  "text": "Hello world. Second line.",
  "segments": [
    {"id": 0, "start": 0.0, "end": 2.0, "text": " Hello world."},
    {"id": 1, "start": 2.0, "end": 4.2, "text": " Second line."}
  ],
  "words": [
    {"word": "Hello", "start": 0.0, "end": 0.8},
    {"word": "world.", "start": 0.9, "end": 1.9},
    {"word": "Second", "start": 2.1, "end": 2.9},
    {"word": "line.", "start": 3.0, "end": 4.2}
  ]
}`

type fakeAPI struct {
	*httptest.Server
	form map[string]string
	file string
}

func newFakeAPI(t *testing.T, transcribe http.HandlerFunc) *fakeAPI {
	t.Helper()
	api := &fakeAPI{form: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"whisper-1","object":"model"},{"id":"gpt-4o","object":"model"}]}`))
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		for k, v := range r.MultipartForm.Value {
			api.form[k] = v[0]
		}
		if fh, ok := r.MultipartForm.File["file"]; ok {
			api.file = fh[0].Filename
		}
		transcribe(w, r)
	})

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func newTestProvider(t *testing.T, api *fakeAPI, key string) *Provider {
	t.Helper()
	p, err := NewProvider(Config{APIKey: key, BaseURL: api.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func audioRequest() transcription.Request {
	return transcription.Request{File: transcription.AudioFile{
		Name:     "meeting.mp3",
		MIMEType: "audio/mpeg",
		Size:     4,
		Content:  bytes.NewReader([]byte("ID3\x03")),
	}}
}

func TestTranscribe_MapsVerboseResponse(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(verboseResponse))
	})
	p := newTestProvider(t, api, "test-key")

	req := audioRequest()
	req.Language = "en"
	res, err := p.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Text != "Hello world. Second line." || res.Language != "english" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}
	if len(res.Segments[0].Words) != 2 || len(res.Segments[1].Words) != 2 {
		t.Errorf("words not split by segment: %+v", res.Segments)
	}
	if w := res.Segments[1].Words[0]; w.Word != "Second" || *w.Start != 2.1 {
		t.Errorf("unexpected word %+v", w)
	}

	if api.form["model"] != "whisper-1" || api.form["language"] != "en" {
		t.Errorf("unexpected form %v", api.form)
	}
	if api.form["response_format"] != "verbose_json" {
		t.Errorf("expected verbose_json, got %q", api.form["response_format"])
	}
	if api.file != "meeting.mp3" {
		t.Errorf("expected file name meeting.mp3, got %q", api.file)
	}
}

func TestTranscribe_APIError(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid file format.", "type": "invalid_request_error"},
		})
	})
	p := newTestProvider(t, api, "test-key")

	_, err := p.Transcribe(context.Background(), audioRequest())
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeRemote || appErr.Message != "Invalid file format." {
		t.Errorf("unexpected error %+v", appErr)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
}

func TestTranscribe_MalformedBody(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":`))
	})
	p := newTestProvider(t, api, "test-key")

	_, err := p.Transcribe(context.Background(), audioRequest())
	if !errors.HasCode(err, errors.ErrCodeTransport) {
		t.Errorf("expected transport failure, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	api := newFakeAPI(t, nil)

	h, err := newTestProvider(t, api, "test-key").Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Status != "healthy" {
		t.Errorf("expected healthy, got %+v", h)
	}

	_, err = newTestProvider(t, api, "wrong").Health(context.Background())
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeRemote || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected 401 remote error, got %v", err)
	}
}

func TestHealth_ModelNotListed(t *testing.T) {
	api := newFakeAPI(t, nil)
	p, err := NewProvider(Config{APIKey: "test-key", BaseURL: api.URL + "/v1", Model: "whisper-large"})
	if err != nil {
		t.Fatal(err)
	}

	h, err := p.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Status != "degraded" {
		t.Errorf("expected degraded, got %+v", h)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	api := newFakeAPI(t, nil)
	p := newTestProvider(t, api, "test-key")
	api.Close()

	_, err := p.Health(context.Background())
	if !errors.HasCode(err, errors.ErrCodeTransport) {
		t.Errorf("expected transport failure, got %v", err)
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"api_key": "k", "timeout": "90s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := p.(*Provider).Config()
	if cfg.Model != "whisper-1" || cfg.Timeout != 90*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := Factory()(map[string]any{}); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected missing api_key to fail validation, got %v", err)
	}
}

func TestToResult_NoWords(t *testing.T) {
	res := toResult(goopenaiResponse(t, `{"text":"hi","language":"en","segments":[{"start":0,"end":1,"text":"hi"}]}`))
	if len(res.Segments) != 1 || res.Segments[0].Words != nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func goopenaiResponse(t *testing.T, body string) goopenai.AudioResponse {
	t.Helper()
	var resp goopenai.AudioResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestConfig_StringMasksKey(t *testing.T) {
	cfg := Config{Name: "openai", APIKey: "sk-secret-value", Model: "whisper-1"}
	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Errorf("api key leaked: %s", s)
	}
	if !strings.Contains(s, "api_key=sk-***") {
		t.Errorf("expected masked key, got %s", s)
	}
}
