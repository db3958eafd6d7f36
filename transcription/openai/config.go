package openai

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/scribe/util"
	"github.com/kbukum/scribe/validation"
)

// ProviderName is the registered name for the OpenAI backend.
const ProviderName = "openai"

const defaultHealthTimeout = 10 * time.Second

// Config configures the OpenAI backend.
type Config struct {
	// Name overrides ProviderName in logs, spans and errors.
	Name string `mapstructure:"name"`
	// APIKey is sent as a bearer token.
	APIKey string `mapstructure:"api_key" validate:"required"`
	// BaseURL points at an OpenAI-compatible server. Empty means api.openai.com.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	// Model defaults to whisper-1.
	Model string `mapstructure:"model" validate:"required"`
	// Language is an optional ISO-639-1 hint.
	Language string `mapstructure:"language"`
	// Prompt guides the model's style or vocabulary.
	Prompt string `mapstructure:"prompt"`
	// Timeout bounds a transcription request. Zero means no deadline.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// HealthTimeout bounds a health request.
	HealthTimeout time.Duration `mapstructure:"health_timeout" validate:"gte=0"`
}

// String describes the config with the API key masked.
func (c Config) String() string {
	return fmt.Sprintf("openai{name=%s base_url=%s model=%s api_key=%s}",
		c.Name, c.BaseURL, c.Model, util.MaskSecret(c.APIKey, 3))
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ProviderName
	}
	if c.Model == "" {
		c.Model = goopenai.Whisper1
	}
	if c.HealthTimeout == 0 {
		c.HealthTimeout = defaultHealthTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// DecodeConfig builds a Config from a generic map.
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
