package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// AppError is the structured error returned by the library.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// UnsupportedMediaType reports that no codec is registered for contentType.
func UnsupportedMediaType(contentType string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedMediaType,
		Message: fmt.Sprintf("no codec registered for media type %q", contentType),
		Details: map[string]any{"content_type": contentType},
	}
}

// InvalidArgument reports an unusable argument.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid %s: %s", name, reason),
		Details: map[string]any{"argument": name},
	}
}

// FileNotFound reports a missing local file.
func FileNotFound(path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeFileNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
		Cause:   cause,
	}
}

// IO reports a failed file or stream operation.
func IO(op, path string, cause error) *AppError {
	details := map[string]any{"op": op}
	if path != "" {
		details["path"] = path
	}
	return &AppError{
		Code:    ErrCodeIO,
		Message: fmt.Sprintf("%s failed", op),
		Details: details,
		Cause:   cause,
	}
}

// FromFileError maps an error from the os package to FileNotFound or IO.
// It returns nil for a nil error and passes AppErrors through unchanged.
func FromFileError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return FileNotFound(path, err)
	}
	return IO(op, path, err)
}

// --- Inspection ---

// IsAppError reports whether err is or wraps an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
