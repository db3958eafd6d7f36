package transcriptiontest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Default routes served by the fake.
const (
	HealthPath     = "/api/health"
	TranscribePath = "/api/transcribe"
)

// Upload records what the fake received on the last transcribe call.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
	Fields      map[string]string
	Headers     http.Header
}

type response struct {
	status int
	body   any
	raw    *string
}

// Server is a fake WhisperX API backed by httptest.Server and a gin engine.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	health     response
	transcribe response
	delay      time.Duration
	maxSize    int64
	lastUpload *Upload

	requests        atomic.Int64
	healthCalls     atomic.Int64
	transcribeCalls atomic.Int64
}

// DefaultResult is returned by a fresh Server for accepted uploads.
func DefaultResult() transcription.Result {
	return transcription.Result{
		Text:     "Hello world. This is a test.",
		Language: "en",
		Segments: []transcription.Segment{
			{Text: " Hello world.", Start: 0.0, End: 2.5, Words: []transcription.Word{
				{Word: "Hello", Start: util.Ptr(0.0), End: util.Ptr(1.1), Score: util.Ptr(0.98)},
				{Word: "world.", Start: util.Ptr(1.2), End: util.Ptr(2.5), Score: util.Ptr(0.95)},
			}},
			{Text: " This is a test.", Start: 2.5, End: 65.0},
		},
	}
}

// NewServer starts a fake and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{maxSize: transcription.DefaultMaxFileSize}
	s.health = response{status: http.StatusOK, body: gin.H{
		"status":       "healthy",
		"message":      "WhisperX transcription API is running",
		"device":       "cpu",
		"compute_type": "int8",
	}}
	s.transcribe = response{status: http.StatusOK, body: resultBody(DefaultResult())}

	engine := gin.New()
	engine.Use(s.count)
	engine.GET(HealthPath, s.handleHealth)
	engine.POST(TranscribePath, s.handleTranscribe)

	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Close)
	return s
}

// SetHealthResponse scripts the health endpoint.
func (s *Server) SetHealthResponse(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = response{status: status, body: body}
}

// SetTranscribeResponse scripts the transcribe endpoint for accepted uploads.
func (s *Server) SetTranscribeResponse(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcribe = response{status: status, body: body}
}

// SetTranscribeResult makes accepted uploads succeed with result.
func (s *Server) SetTranscribeResult(result transcription.Result) {
	s.SetTranscribeResponse(http.StatusOK, resultBody(result))
}

// SetRawTranscribeResponse scripts a non-JSON transcribe body.
func (s *Server) SetRawTranscribeResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcribe = response{status: status, raw: &body}
}

// SetDelay holds every response for d, or until the client goes away.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetMaxFileSize changes the server-side size limit.
func (s *Server) SetMaxFileSize(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSize = n
}

// Requests returns the number of requests received on any route.
func (s *Server) Requests() int64 { return s.requests.Load() }

// HealthCalls returns the number of health requests received.
func (s *Server) HealthCalls() int64 { return s.healthCalls.Load() }

// TranscribeCalls returns the number of transcribe requests received.
func (s *Server) TranscribeCalls() int64 { return s.transcribeCalls.Load() }

// LastUpload returns the last file accepted by the transcribe endpoint.
func (s *Server) LastUpload() (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUpload == nil {
		return Upload{}, false
	}
	return *s.lastUpload, true
}

func (s *Server) count(c *gin.Context) {
	s.requests.Add(1)
	c.Next()
}

func (s *Server) wait(c *gin.Context) {
	s.mu.Lock()
	d := s.delay
	s.mu.Unlock()
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-c.Request.Context().Done():
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	s.healthCalls.Add(1)
	s.wait(c)

	s.mu.Lock()
	r := s.health
	s.mu.Unlock()
	write(c, r)
}

func (s *Server) handleTranscribe(c *gin.Context) {
	s.transcribeCalls.Add(1)
	s.wait(c)

	fh, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file was sent"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !slices.Contains(transcription.AllowedExtensions(), ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	s.mu.Lock()
	maxSize := s.maxSize
	s.mu.Unlock()
	if fh.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum allowed: 100MB"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error: " + err.Error()})
		return
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error: " + err.Error()})
		return
	}

	fields := make(map[string]string)
	for k, v := range c.Request.MultipartForm.Value {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	s.mu.Lock()
	s.lastUpload = &Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
		Fields:      fields,
		Headers:     c.Request.Header.Clone(),
	}
	r := s.transcribe
	s.mu.Unlock()

	write(c, r)
}

func write(c *gin.Context, r response) {
	if r.raw != nil {
		c.Data(r.status, "text/plain; charset=utf-8", []byte(*r.raw))
		return
	}
	if r.body == nil {
		c.Status(r.status)
		return
	}
	c.JSON(r.status, r.body)
}

// resultBody renders a result the way the WhisperX server does, with its
// extra success flag.
func resultBody(r transcription.Result) gin.H {
	return gin.H{
		"success":  true,
		"language": r.Language,
		"segments": r.Segments,
		"text":     r.Text,
	}
}
