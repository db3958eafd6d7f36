package whisperx

import (
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/scribe/validation"
)

// ProviderName is the registered name for the WhisperX backend.
const ProviderName = "whisperx"

const (
	defaultBaseURL        = "http://localhost:5000"
	defaultHealthPath     = "/api/health"
	defaultTranscribePath = "/api/transcribe"
	defaultFieldName      = "audio"
	defaultHealthTimeout  = 10 * time.Second
)

// Config configures the WhisperX backend.
type Config struct {
	// Name overrides ProviderName in logs, spans and errors.
	Name string `mapstructure:"name"`
	// BaseURL is the service root, e.g. "http://localhost:5000".
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// HealthPath is the health route relative to BaseURL.
	HealthPath string `mapstructure:"health_path" validate:"required,startswith=/"`
	// TranscribePath is the upload route relative to BaseURL.
	TranscribePath string `mapstructure:"transcribe_path" validate:"required,startswith=/"`
	// FieldName is the multipart field carrying the file.
	FieldName string `mapstructure:"field_name" validate:"required"`
	// Timeout bounds a transcription request. Zero means no deadline;
	// long recordings can take minutes to process.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// HealthTimeout bounds a health request.
	HealthTimeout time.Duration `mapstructure:"health_timeout" validate:"gte=0"`
	// Headers are sent on every request.
	Headers map[string]string `mapstructure:"headers"`
	// Model and Language are sent as form fields when set. Requests may
	// override both.
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ProviderName
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.HealthPath == "" {
		c.HealthPath = defaultHealthPath
	}
	if c.TranscribePath == "" {
		c.TranscribePath = defaultTranscribePath
	}
	if c.FieldName == "" {
		c.FieldName = defaultFieldName
	}
	if c.HealthTimeout == 0 {
		c.HealthTimeout = defaultHealthTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// DecodeConfig builds a Config from a generic map such as a viper
// sub-tree. Durations may be given as strings ("30s") or nanoseconds.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, err
	}
	return cfg, nil
}
