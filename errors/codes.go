package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Content negotiation errors
const (
	// ErrCodeUnsupportedMediaType indicates no codec matches the content type.
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	// ErrCodeInvalidArgument indicates a caller supplied an unusable value.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// File system errors
const (
	// ErrCodeFileNotFound indicates a local file referenced by a request is missing.
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	// ErrCodeIO indicates a read or write on a local file or stream failed.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

var codeFamilies = map[ErrorCode]string{
	ErrCodeUnsupportedMediaType: "content",
	ErrCodeInvalidArgument:      "content",
	ErrCodeFileNotFound:         "file",
	ErrCodeIO:                   "file",
}

// Family returns the family name of a code, or "unknown".
func (c ErrorCode) Family() string {
	if f, ok := codeFamilies[c]; ok {
		return f
	}
	return "unknown"
}
