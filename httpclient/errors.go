package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request or its context deadline expired.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates the server could not be reached or the
	// connection dropped mid-response.
	ErrCodeConnection
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest
	// ErrCodeStatus indicates the server answered with a non-2xx status.
	ErrCodeStatus
	// ErrCodeDecode indicates a 2xx response whose body could not be decoded.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRequest:
		return "request"
	case ErrCodeStatus:
		return "status"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is the HTTP status code, 0 when no response was read.
	StatusCode int
	Code       ErrorCode
	Message    string
	// Body is the raw response body, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Answered reports whether the server replied with an error status. Timeouts,
// connection failures and undecodable success bodies are not answers.
func (e *Error) Answered() bool {
	return e.Code == ErrCodeStatus && e.StatusCode > 0
}

// ServiceMessage returns the "error" field of a JSON error body, or fallback
// when the body is empty, not JSON, or carries no message.
func (e *Error) ServiceMessage(fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if len(e.Body) == 0 || json.Unmarshal(e.Body, &body) != nil {
		return fallback
	}
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	return fallback
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewRequestError creates an error for a request that was never sent.
func NewRequestError(msg string) *Error {
	return &Error{Code: ErrCodeRequest, Message: msg}
}

// NewStatusError creates an error for a non-2xx answer.
func NewStatusError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeStatus,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
}

// NewDecodeError creates a decode error for a successful response with an
// unusable body.
func NewDecodeError(statusCode int, body []byte, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeDecode,
		Message:    err.Error(),
		Body:       body,
		Err:        err,
	}
}

// CheckStatus returns nil for 2xx codes and a status error otherwise.
func CheckStatus(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return NewStatusError(statusCode, body)
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection reports whether err is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsStatus reports whether err is a non-2xx answer.
func IsStatus(err error) bool { return hasCode(err, ErrCodeStatus) }

// IsDecode reports whether err is a response decode error.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
