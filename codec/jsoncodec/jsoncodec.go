// Package jsoncodec reads and writes JSON bodies using bytedance/sonic.
package jsoncodec

import (
	"github.com/bytedance/sonic"

	"github.com/kbukum/fluenthttp/codec"
)

// DefaultContentTypes are the MIME patterns handled when none are given.
var DefaultContentTypes = []string{"application/json", "text/json", `\+json$`}

// Codec is a JSON codec.
type Codec struct {
	types []string
	api   sonic.API
}

var _ codec.Codec = (*Codec)(nil)

// Option configures a Codec.
type Option func(*Codec)

// WithContentTypes replaces the handled MIME patterns.
func WithContentTypes(patterns ...string) Option {
	return func(c *Codec) { c.types = patterns }
}

// WithAPI selects the sonic configuration, e.g. sonic.ConfigFastest.
func WithAPI(api sonic.API) Option {
	return func(c *Codec) { c.api = api }
}

// New creates a JSON codec compatible with encoding/json by default.
func New(opts ...Option) *Codec {
	c := &Codec{types: DefaultContentTypes, api: sonic.ConfigStd}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentTypes returns the MIME patterns the codec is registered under.
func (c *Codec) ContentTypes() []string { return c.types }

// FileExtensions returns ".json".
func (c *Codec) FileExtensions() []string { return []string{".json"} }

// Write marshals v to JSON text.
func (c *Codec) Write(v any) (string, error) {
	return c.api.MarshalToString(v)
}

// Read unmarshals JSON text into v.
func (c *Codec) Read(text string, v any) error {
	return c.api.UnmarshalFromString(text, v)
}

// ReadDynamic unmarshals JSON text into maps, slices and scalars.
func (c *Codec) ReadDynamic(text string) (any, error) {
	var out any
	if err := c.api.UnmarshalFromString(text, &out); err != nil {
		return nil, err
	}
	return out, nil
}
