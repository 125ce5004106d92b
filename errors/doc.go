// Package errors defines the structured error type shared by the codec,
// uri and httpclient packages.
//
// Every error carries a machine-readable ErrorCode so callers can branch on
// the failure family without string matching:
//
//	if errors.HasCode(err, errors.ErrCodeUnsupportedMediaType) {
//	    // no codec registered for the content type
//	}
package errors
