// Package yamlcodec reads and writes YAML bodies using goccy/go-yaml.
package yamlcodec

import (
	"github.com/goccy/go-yaml"

	"github.com/kbukum/fluenthttp/codec"
)

// DefaultContentTypes are the MIME patterns handled by New.
var DefaultContentTypes = []string{"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml"}

// Codec is a YAML codec.
type Codec struct {
	types []string
}

var _ codec.Codec = (*Codec)(nil)

// New creates a YAML codec. Passing patterns replaces the defaults.
func New(patterns ...string) *Codec {
	if len(patterns) == 0 {
		patterns = DefaultContentTypes
	}
	return &Codec{types: patterns}
}

// ContentTypes returns the MIME patterns the codec is registered under.
func (c *Codec) ContentTypes() []string { return c.types }

// FileExtensions returns ".yaml" and ".yml".
func (c *Codec) FileExtensions() []string { return []string{".yaml", ".yml"} }

// Write marshals v to a YAML document.
func (c *Codec) Write(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Read unmarshals a YAML document into v.
func (c *Codec) Read(text string, v any) error {
	return yaml.Unmarshal([]byte(text), v)
}

// ReadDynamic unmarshals a YAML document into maps, slices and scalars.
func (c *Codec) ReadDynamic(text string) (any, error) {
	var out any
	if err := yaml.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return out, nil
}
