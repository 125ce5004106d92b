// Package tomlcodec reads and writes TOML bodies using pelletier/go-toml/v2.
package tomlcodec

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/kbukum/fluenthttp/codec"
)

// DefaultContentTypes are the MIME patterns handled by New.
var DefaultContentTypes = []string{"application/toml", "text/x-toml"}

// Codec is a TOML codec.
type Codec struct {
	types []string
}

var _ codec.Codec = (*Codec)(nil)

// New creates a TOML codec. Passing patterns replaces the defaults.
func New(patterns ...string) *Codec {
	if len(patterns) == 0 {
		patterns = DefaultContentTypes
	}
	return &Codec{types: patterns}
}

// ContentTypes returns the MIME patterns the codec is registered under.
func (c *Codec) ContentTypes() []string { return c.types }

// FileExtensions returns ".toml".
func (c *Codec) FileExtensions() []string { return []string{".toml"} }

// Write marshals v, which must encode as a table, to TOML.
func (c *Codec) Write(v any) (string, error) {
	b, err := toml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Read unmarshals a TOML document into v.
func (c *Codec) Read(text string, v any) error {
	return toml.Unmarshal([]byte(text), v)
}

// ReadDynamic returns a map[string]any; TOML documents are always tables.
func (c *Codec) ReadDynamic(text string) (any, error) {
	out := map[string]any{}
	if err := toml.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return out, nil
}
