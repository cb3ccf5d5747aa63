package webextract

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
//
// These are meant to be generic and map well to transport-level errors and
// user-facing messages. Page-level failures carry one of these codes so the
// orchestrator can decide whether to retry, skip, or abort.
const (
	ECONFIG      = "config"      // missing or invalid configuration, fatal before any run
	ECONFLICT    = "conflict"    // action cannot be performed in the current state
	EINTERNAL    = "internal"    // unexpected internal error
	EINVALID     = "invalid"     // validation failed or permanent request error
	ENOTFOUND    = "not_found"   // entity does not exist
	ERATELIMIT   = "rate_limit"  // provider rate limit, retryable after a delay
	EUNAVAILABLE = "unavailable" // transient network or service error, retryable
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string

	// RetryAfter is an optional hint from the provider indicating how long
	// to wait before retrying. Only meaningful for ERATELIMIT errors.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webextract error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorRetryAfter unwraps an application error and returns the provider's
// retry-after hint. The bool result is false when the error carries no hint.
func ErrorRetryAfter(err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}

// Retryable reports whether an error is worth retrying. Rate-limit and
// transient service errors are retryable; everything else is permanent.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ERATELIMIT, EUNAVAILABLE:
		return true
	default:
		return false
	}
}
