// Package config loads scribe configuration from a YAML file, an optional
// .env file and SCRIBE_-prefixed environment variables using Viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("scribe", &cfg, config.WithConfigFile(path))
//
// Environment variables override file values. SCRIBE_TRANSCRIPTION_BACKEND
// maps to transcription.backend; every underscore split is tried so keys
// containing underscores (base_url) still resolve.
package config
