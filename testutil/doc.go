// Package testutil provides test infrastructure for the HTTP client.
//
// FixtureServer is a gin application served by httptest that exposes the
// endpoints the client tests exercise: greetings in several encodings,
// uploads, cookies, redirects, authentication, compressed and non-UTF-8
// bodies. It records what it receives so tests can assert on the wire
// request.
//
//	func TestGreeting(t *testing.T) {
//	    srv := testutil.NewFixtureServer()
//	    testutil.T(t).Setup(srv)
//	    client, _ := httpclient.New(httpclient.Config{BaseURL: srv.URL()})
//	    ...
//	}
package testutil
