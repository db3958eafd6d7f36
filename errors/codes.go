package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Local pre-flight errors. These are detected before any network call.
const (
	// ErrCodeUnsupportedFormat indicates neither the MIME type nor the file
	// extension is on the accepted audio/video list.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeFileTooLarge indicates the file exceeds the upload size limit.
	ErrCodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"
)

// Remote errors
const (
	// ErrCodeRemote indicates the transcription service answered with a
	// non-success status.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"
	// ErrCodeTransport indicates the call could not complete: DNS, refused
	// connection, timeout or an unreadable response body.
	ErrCodeTransport ErrorCode = "TRANSPORT_FAILURE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// State errors
const (
	// ErrCodeConflict indicates the operation is not allowed in the current state.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Retryable only marks the error as transient for callers; the client itself
// makes a single attempt per call.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
	ErrCodeRemote:    false,
	ErrCodeInternal:  false,
}

// IsRetryableCode returns true if the error code indicates a transient error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
