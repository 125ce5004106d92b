// Package httpclient provides a stateful HTTP client that negotiates
// request and response bodies through the codec registry.
//
// A Client owns one Request and the Response of its last call. Each verb
// resets the request, composes the URI against the base URL, selects one
// body mode (none, encoded data, local file or multipart) and sends it:
//
//	client, err := httpclient.New(httpclient.Config{BaseURL: "http://localhost:16915"})
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get(ctx, "/hello", uri.Params{{Name: "name", Value: "Matt"}})
//	if err != nil {
//	    return err
//	}
//	greeting, err := httpclient.TypedBody[Greeting](resp)
//
// Extra headers follow add-if-absent semantics: the first value added for
// a key is the one sent.
//
// Responses are buffered as UTF-8 text by default. Set StreamResponse to
// read the body yourself, and close it with Response.Close. With
// ThrowOnHTTPError a 4xx or 5xx status returns the populated response
// together with an *Error.
//
// The rest subpackage adds generic typed helpers on top of Client.
package httpclient
