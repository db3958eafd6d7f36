// Package errors provides the structured error type shared by the scribe
// packages. Every failure a transcription call can produce is an *AppError
// carrying one of the ErrorCode values, so callers branch on the code rather
// than on error types or message text.
package errors
