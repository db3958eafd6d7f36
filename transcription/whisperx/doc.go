// Package whisperx implements transcription.Provider for the WhisperX HTTP
// API.
//
// The service exposes two routes:
//
//	GET  {base}/api/health      -> {"status":"healthy","device":"cpu",...}
//	POST {base}/api/transcribe  -> multipart "audio" field; {"text","language","segments"}
//
// Non-success answers carry {"error": "..."}; that text becomes the message
// of a REMOTE_ERROR. Network failures and unreadable bodies become
// TRANSPORT_FAILURE. Each call is a single attempt.
package whisperx
