// Package rest provides typed REST calls on top of httpclient.
//
// Bodies are encoded and responses decoded through the client's codec
// registry, so any registered media type works, JSON by default:
//
//	client, err := rest.New(httpclient.Config{BaseURL: "https://api.example.com"})
//
//	user, err := rest.Get[User](ctx, client, "/users/123")
//
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"},
//	    rest.WithContentType("application/x-yaml"))
package rest
