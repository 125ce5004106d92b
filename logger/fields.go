package logger

import "time"

// Standard field keys used by exchange logs.
const (
	FieldComponent   = "component"
	FieldMethod      = "method"
	FieldURI         = "uri"
	FieldStatus      = "status"
	FieldContentType = "content_type"
	FieldBodyMode    = "body_mode"
	FieldBytes       = "bytes"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
)

// Fields builds a map from alternating key-value pairs. Non-string keys
// and a trailing odd value are ignored.
//
//	log.Debug("sent", logger.Fields(logger.FieldMethod, "PUT", logger.FieldBytes, 42))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// DurationFields creates fields for a timed exchange.
func DurationFields(method, uri string, d time.Duration) map[string]any {
	return map[string]any{
		FieldMethod:   method,
		FieldURI:      uri,
		FieldDuration: d.Milliseconds(),
	}
}
