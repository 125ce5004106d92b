// Package formcodec reads and writes application/x-www-form-urlencoded
// bodies.
//
// Writing enumerates the top-level properties of a value with
// uri.AllProperties, so structs, maps and uri.Params all produce
// "name=value&other=value" with form-escaped values. A nil property is
// written as "name=".
package formcodec

import (
	"net/url"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/fluenthttp/codec"
	"github.com/kbukum/fluenthttp/uri"
)

// ContentType is the form media type.
const ContentType = "application/x-www-form-urlencoded"

// Codec is a form codec.
type Codec struct{}

var _ codec.Codec = Codec{}

// New creates a form codec.
func New() Codec {
	return Codec{}
}

// ContentTypes returns ContentType.
func (Codec) ContentTypes() []string { return []string{ContentType} }

// FileExtensions returns ".form".
func (Codec) FileExtensions() []string { return []string{".form"} }

// Write renders the properties of v as name=value pairs joined by '&'.
func (Codec) Write(v any) (string, error) {
	props := uri.AllProperties(v)
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Name + "=" + uri.Escape(p.Value)
	}
	return strings.Join(parts, "&"), nil
}

// Read decodes fields into v by `url` tag or case-insensitive field name.
// Numeric and boolean fields are converted from their text form.
func (c Codec) Read(text string, v any) error {
	fields, err := c.parse(text)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "url",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

// ReadDynamic returns a map of field name to string, or to []any when a
// field repeats.
func (c Codec) ReadDynamic(text string) (any, error) {
	return c.parse(text)
}

func (Codec) parse(text string) (map[string]any, error) {
	values, err := url.ParseQuery(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		items := make([]any, len(vs))
		for i, s := range vs {
			items[i] = s
		}
		out[k] = items
	}
	return out, nil
}
