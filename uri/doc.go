// Package uri composes request URIs from a base address, a path and a
// parameter object.
//
// Parameters render either as a query string or as path segments:
//
//	c := uri.NewComposer()
//	c.Compose("http://localhost:16000", "/hello", uri.Params{{"Name", "Matt"}}, false)
//	// http://localhost:16000/hello?Name=Matt
//	c.Compose("http://localhost:16000", "/hello", uri.Params{{"Name", "Matt"}}, true)
//	// http://localhost:16000/hello/Matt
//
// Values are escaped with form encoding (space becomes '+', lower-case hex
// escapes). Names are written as given.
package uri
