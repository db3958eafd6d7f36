package main

import (
	"fmt"
	"maps"

	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/util"
	"github.com/kbukum/scribe/validation"
)

const serviceName = "scribe"

// AppConfig is the full scribe configuration.
//
//	name: scribe
//	transcription:
//	  backend: whisperx
//	  max_file_size: 100MB
//	  whisperx:
//	    base_url: http://localhost:5000
//	  openai:
//	    api_key: sk-...
//	observability:
//	  enabled: false
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	Transcription        TranscriptionConfig  `mapstructure:"transcription"`
	Observability        observability.Config `mapstructure:"observability"`
}

// TranscriptionConfig selects the backend and carries each backend's
// settings as a raw map decoded by the backend's factory.
type TranscriptionConfig struct {
	Backend     string         `mapstructure:"backend" validate:"required,oneof=whisperx openai"`
	MaxFileSize string         `mapstructure:"max_file_size"`
	WhisperX    map[string]any `mapstructure:"whisperx"`
	OpenAI      map[string]any `mapstructure:"openai"`
}

// BackendConfig returns a copy of the selected backend's settings.
func (c *TranscriptionConfig) BackendConfig() map[string]any {
	var src map[string]any
	switch c.Backend {
	case "openai":
		src = c.OpenAI
	default:
		src = c.WhisperX
	}
	out := make(map[string]any, len(src))
	maps.Copy(out, src)
	return out
}

// MaxBytes parses MaxFileSize ("100MB", "512KB", "1048576").
func (c *TranscriptionConfig) MaxBytes() (int64, error) {
	return util.ParseSize(c.MaxFileSize, transcription.DefaultMaxFileSize)
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = "whisperx"
	}
	if c.Transcription.MaxFileSize == "" {
		c.Transcription.MaxFileSize = util.FormatSize(transcription.DefaultMaxFileSize)
	}
}

// Validate checks the configuration.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Transcription); err != nil {
		return err
	}
	if _, err := c.Transcription.MaxBytes(); err != nil {
		return fmt.Errorf("transcription.max_file_size: %w", err)
	}
	if c.Observability.Enabled {
		return c.Observability.Validate()
	}
	return nil
}
