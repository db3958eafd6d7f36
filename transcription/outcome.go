package transcription

import (
	"github.com/kbukum/scribe/errors"
)

// Outcome is the tagged result of every public client operation: either
// OK with a Payload, or not OK with an Err. Client methods never return a
// separate error value.
type Outcome[T any] struct {
	OK      bool
	Payload T
	Err     *errors.AppError
}

// Succeed returns a successful outcome carrying payload.
func Succeed[T any](payload T) Outcome[T] {
	return Outcome[T]{OK: true, Payload: payload}
}

// Fail returns a failed outcome. Errors that are not already AppErrors
// become INTERNAL_ERROR.
func Fail[T any](err error) Outcome[T] {
	appErr := errors.Wrap(err)
	if appErr == nil {
		appErr = errors.Internal(nil)
	}
	return Outcome[T]{Err: appErr}
}

// Kind returns the failure code, or "" for a successful outcome.
func (o Outcome[T]) Kind() errors.ErrorCode {
	if o.OK || o.Err == nil {
		return ""
	}
	return o.Err.Code
}

// ErrorMessage returns the human-readable failure message, or "".
func (o Outcome[T]) ErrorMessage() string {
	if o.OK || o.Err == nil {
		return ""
	}
	return o.Err.Message
}

// AsError returns the failure as an error, or nil when OK.
func (o Outcome[T]) AsError() error {
	if o.OK || o.Err == nil {
		return nil
	}
	return o.Err
}
