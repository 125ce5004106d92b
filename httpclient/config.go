package httpclient

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/fluenthttp/logger"
	"github.com/kbukum/fluenthttp/version"
)

const (
	// DefaultTimeout is the request timeout when none is configured.
	DefaultTimeout = 100 * time.Second
	// DefaultAccept is the Accept header sent when none is configured.
	DefaultAccept = "text/html, application/xml, application/json"
	// DefaultMaxRedirects bounds automatic redirects.
	DefaultMaxRedirects = 50
)

// Config configures a Client. Request-level settings seed the client's
// Request and can be changed between calls.
type Config struct {
	// BaseURL is prepended to every request URI. Empty means URIs are
	// absolute.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds each call. Defaults to 100s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent defaults to version.UserAgent().
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Accept defaults to DefaultAccept.
	Accept string `yaml:"accept" mapstructure:"accept"`

	// Headers are extra headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// ThrowOnHTTPError makes 4xx and 5xx responses return an *Error
	// alongside the response.
	ThrowOnHTTPError bool `yaml:"throw_on_http_error" mapstructure:"throw_on_http_error"`

	// StreamResponse leaves response bodies open for the caller to read.
	StreamResponse bool `yaml:"stream_response" mapstructure:"stream_response"`

	// ParametersAsSegments renders query objects as path segments.
	ParametersAsSegments bool `yaml:"parameters_as_segments" mapstructure:"parameters_as_segments"`

	// PersistCookies keeps one cookie jar across calls.
	PersistCookies bool `yaml:"persist_cookies" mapstructure:"persist_cookies"`

	// DisableRedirects stops following redirects; the redirect response is
	// returned as is.
	DisableRedirects bool `yaml:"disable_redirects" mapstructure:"disable_redirects"`

	// MaxRedirects bounds redirect chains. Defaults to 50.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects" validate:"gte=0"`

	// TLS configures the transport.
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Logging enables exchange logs.
	Logging bool `yaml:"logging" mapstructure:"logging"`

	// Log configures the exchange logger when Logging is set.
	Log logger.Config `yaml:"log" mapstructure:"log"`
}

// ApplyDefaults fills in zero-value fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.Accept == "" {
		c.Accept = DefaultAccept
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	c.Log.ApplyDefaults()
}

var structValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return fmt.Errorf("httpclient: invalid config: %s", describeValidation(err))
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if c.Logging {
		if err := c.Log.Validate(); err != nil {
			return fmt.Errorf("httpclient: %w", err)
		}
	}
	return nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return strings.Join(msgs, "; ")
}
