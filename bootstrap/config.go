package bootstrap

import (
	"github.com/kbukum/scribe/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods.
//
//	type AppConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Transcription TranscriptionConfig `mapstructure:"transcription"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
