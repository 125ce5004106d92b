package codec

import (
	"strings"

	"github.com/kbukum/fluenthttp/errors"
)

// Decoder turns response text into typed or dynamic values.
type Decoder struct {
	readers *ReaderRegistry
}

// NewDecoder creates a decoder over a reader registry.
func NewDecoder(readers *ReaderRegistry) *Decoder {
	return &Decoder{readers: readers}
}

// Readers returns the registry used for lookups.
func (d *Decoder) Readers() *ReaderRegistry {
	return d.readers
}

// DecodeInto parses text of contentType into v.
func (d *Decoder) DecodeInto(text, contentType string, v any) error {
	r, text, err := d.prepare(text, contentType)
	if err != nil {
		return err
	}
	return r.Read(text, v)
}

// DecodeDynamic parses text of contentType into a Value tree.
func (d *Decoder) DecodeDynamic(text, contentType string) (*Value, error) {
	r, text, err := d.prepare(text, contentType)
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadDynamic(text)
	if err != nil {
		return nil, err
	}
	return NewValue(raw), nil
}

// Decode parses text of contentType into a new T.
func Decode[T any](d *Decoder, text, contentType string) (T, error) {
	var out T
	err := d.DecodeInto(text, contentType, &out)
	return out, err
}

// prepare rejects empty input and rewrites `"@` to `"` so attribute-style
// keys such as "@id" decode as "id".
func (d *Decoder) prepare(text, contentType string) (Reader, string, error) {
	if text == "" {
		return nil, "", errors.InvalidArgument("text", "must not be empty")
	}
	text = strings.ReplaceAll(text, `"@`, `"`)
	r, err := d.readers.Find(contentType)
	if err != nil {
		return nil, "", err
	}
	return r, text, nil
}
