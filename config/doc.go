// Package config loads configuration from YAML files, .env files and
// environment variables.
//
// Files are resolved by name: <name>.yml and config.yml are searched in
// the working directory, ./config and the parent directory; .env.<name>
// and .env in the same places. Explicit paths override the search.
//
// Environment variables carry the upper-cased name as prefix and
// underscore-separated keys, so BILLING_API_TLS_CA_FILE sets tls.ca_file
// when loading "billing-api".
//
//	cfg, err := config.LoadClient("billing-api")
package config
