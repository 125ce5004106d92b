// Package logger builds zerolog loggers for the http client.
//
// Exchange logging is opt-in: a client configured without logging uses
// Nop, which discards everything without allocating.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "console"
//
// # Usage
//
//	log := logger.New(&cfg, "httpclient")
//	log.Debug("request sent", logger.Fields(logger.FieldMethod, "GET"))
package logger
