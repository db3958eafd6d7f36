// Package logger wraps zerolog with the conventions used across scribe:
// a service tag, component-scoped child loggers and map-based fields.
//
// # Usage
//
//	log := logger.New(&cfg, "scribe").WithComponent("whisperx")
//	log.Info("transcription finished", logger.Fields(logger.FieldSegments, 12))
package logger
