package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a client-side validation error (400).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified client failure: a transport error (StatusCode 0)
// or a 4xx/5xx response when the client throws on HTTP errors.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// StatusDescription is the reason phrase of the response.
	StatusDescription string
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
	// Response is the fully read response for HTTP status errors.
	Response *Response
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a transport timeout. Timeouts are retryable.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a failure to reach the server. Connection
// errors are retryable.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// statusClass returns the code for a 4xx or 5xx status and whether a
// caller may retry the same request.
func statusClass(status int) (ErrorCode, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeAuth, false
	case status == http.StatusNotFound:
		return ErrCodeNotFound, false
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit, true
	case status < 500:
		return ErrCodeValidation, false
	default:
		return ErrCodeServer, status != http.StatusNotImplemented
	}
}

// ClassifyStatus builds the error for a 4xx or 5xx status with its reason
// phrase and body. It returns nil for any other status.
func ClassifyStatus(status int, description string, body []byte) *Error {
	if status < 400 || status > 599 {
		return nil
	}
	code, retryable := statusClass(status)
	msg := fmt.Sprintf("HTTP %d", status)
	if description != "" {
		msg += " " + description
	}
	return &Error{
		StatusCode:        status,
		StatusDescription: description,
		Code:              code,
		Message:           msg,
		Retryable:         retryable,
		Body:              body,
	}
}

// transportError classifies a failed exchange as a timeout or connection
// error.
func transportError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// NewHTTPError classifies a 4xx or 5xx response. It returns nil for any
// other status. The returned error keeps resp so callers can still read its
// headers and body.
func NewHTTPError(resp *Response) *Error {
	if resp == nil {
		return nil
	}
	e := ClassifyStatus(resp.StatusCode, resp.StatusDescription, []byte(resp.RawText))
	if e != nil {
		e.Response = resp
	}
	return e
}

// AsError returns the *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsHTTPError checks if an error was raised for a 4xx or 5xx response.
func IsHTTPError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Response != nil
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAuth
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRateLimit
}

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeServer
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
