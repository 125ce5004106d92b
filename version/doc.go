// Package version reports the library version and the default User-Agent
// sent by the http client.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/fluenthttp/version.Version=1.2.0"
//
// Without ldflags the version of the module recorded in the build info is
// used, so applications depending on a tagged release report that tag.
package version
