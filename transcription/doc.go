// Package transcription is a thin client for a remote speech-to-text
// service such as a WhisperX HTTP server.
//
// The Client validates audio locally (format, then size), delegates the
// health check and the upload to a pluggable Provider, and reports every
// result as a tagged Outcome instead of an error return. FormatSegments
// and FormatTime prepare results for display.
//
// # Backends
//
//   - transcription/whisperx: WhisperX-style HTTP API (/api/health, /api/transcribe)
//   - transcription/openai: OpenAI audio transcription API
//
// # Usage
//
//	p, err := whisperx.NewProvider(whisperx.Config{BaseURL: "http://localhost:5000"})
//	client := transcription.NewClient(p, transcription.WithLogger(log))
//
//	file, closer, err := transcription.OpenFile("meeting.m4a")
//	defer closer.Close()
//
//	out := client.Transcribe(ctx, file, func(status string) { fmt.Println(status) })
//	if !out.OK {
//	    return out.AsError()
//	}
//	for _, seg := range transcription.FormatSegments(out.Payload.Segments) { ... }
package transcription
