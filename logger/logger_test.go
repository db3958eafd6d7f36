package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: FormatConsole, NoColor: true}, "scribe", &buf)

	l.Warn("api offline", Fields(FieldProvider, "whisperx"))

	out := buf.String()
	if !strings.Contains(out, "[SCR][WRN]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "provider:") || !strings.Contains(out, "whisperx") {
		t.Errorf("expected provider field, got %q", out)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "scribe", &buf)

	l.WithComponent("whisperx").Info("uploaded", Fields(FieldFileName, "talk.mp3"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "scribe" {
		t.Errorf("service = %v, want scribe", entry["service"])
	}
	if entry[FieldComponent] != "whisperx" {
		t.Errorf("component = %v, want whisperx", entry[FieldComponent])
	}
	if entry[FieldFileName] != "talk.mp3" {
		t.Errorf("file_name = %v, want talk.mp3", entry[FieldFileName])
	}
	if entry["message"] != "uploaded" {
		t.Errorf("message = %v, want uploaded", entry["message"])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "scribe", &buf)

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestWithContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "scribe", &buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q, want req-1", got)
	}
	l.WithContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("expected request_id in output, got %q", buf.String())
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "scribe", &buf)

	l.WithFields(map[string]interface{}{"key": "value"}).WithError(fmt.Errorf("boom")).Error("failed")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected key and error fields, got %q", out)
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Info("discarded", Fields("a", 1))
}

func TestInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "console", ServiceName: "scribe"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "scribe" {
		t.Errorf("expected service scribe, got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"disabled", Config{Level: "disabled", Format: "json"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{
			"key-value pairs",
			[]interface{}{"op", "transcribe", "segments", 42},
			map[string]interface{}{"op": "transcribe", "segments": 42},
		},
		{
			"odd number of args",
			[]interface{}{"op", "health", "trailing"},
			map[string]interface{}{"op": "health"},
		},
		{
			"non-string key skipped",
			[]interface{}{123, "value", "key", "val"},
			map[string]interface{}{"key": "val"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("len = %d, want %d", len(result), len(tc.expected))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields("transcribe", fmt.Errorf("something broke"))

	if fields[FieldOperation] != "transcribe" {
		t.Errorf("expected operation 'transcribe', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "something broke" {
		t.Errorf("expected error 'something broke', got %v", fields[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	fields := DurationFields("health", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}

func TestMergeWithError(t *testing.T) {
	fields := MergeWithError(nil, fmt.Errorf("x"))
	if fields[FieldError] != "x" {
		t.Errorf("expected error field, got %v", fields[FieldError])
	}
}
