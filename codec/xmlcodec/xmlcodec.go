// Package xmlcodec reads and writes XML bodies using encoding/xml.
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/kbukum/fluenthttp/codec"
)

// DefaultContentTypes are the MIME patterns handled by New.
var DefaultContentTypes = []string{"application/xml", "text/xml", `\+xml$`}

// Codec is an XML codec.
type Codec struct {
	types []string
	root  string
}

var _ codec.Codec = (*Codec)(nil)

// New creates an XML codec. Passing patterns replaces the defaults.
func New(patterns ...string) *Codec {
	if len(patterns) == 0 {
		patterns = DefaultContentTypes
	}
	return &Codec{types: patterns, root: "root"}
}

// ContentTypes returns the MIME patterns the codec is registered under.
func (c *Codec) ContentTypes() []string { return c.types }

// FileExtensions returns ".xml".
func (c *Codec) FileExtensions() []string { return []string{".xml"} }

// Write marshals v with encoding/xml. A map[string]any is written as a
// <root> element with one child per key in sorted order.
func (c *Codec) Write(v any) (string, error) {
	if m, ok := v.(map[string]any); ok {
		var buf bytes.Buffer
		enc := xml.NewEncoder(&buf)
		if err := encodeMap(enc, c.root, m); err != nil {
			return "", err
		}
		if err := enc.Flush(); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	b, err := xml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeMap(enc *xml.Encoder, name string, m map[string]any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var err error
		switch item := m[k].(type) {
		case map[string]any:
			err = encodeMap(enc, k, item)
		case nil:
			err = enc.EncodeElement("", xml.StartElement{Name: xml.Name{Local: k}})
		default:
			err = enc.EncodeElement(fmt.Sprint(item), xml.StartElement{Name: xml.Name{Local: k}})
		}
		if err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Read unmarshals an XML document into v with encoding/xml rules.
func (c *Codec) Read(text string, v any) error {
	return xml.Unmarshal([]byte(text), v)
}

// ReadDynamic converts a document into nested maps keyed by element name.
// Attributes become "@name" members, repeated elements become arrays, and
// text mixed with child elements is kept under "#text". A leaf element
// without attributes is its text.
func (c *Codec) ReadDynamic(text string) (any, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("xmlcodec: no root element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			node, err := readElement(dec, start)
			if err != nil {
				return nil, err
			}
			return map[string]any{start.Name.Local: node}, nil
		}
	}
}

func readElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	members := map[string]any{}
	for _, attr := range start.Attr {
		members["@"+attr.Name.Local] = attr.Value
	}
	var text strings.Builder
	children := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(dec, t)
			if err != nil {
				return nil, err
			}
			children++
			name := t.Name.Local
			switch existing := members[name].(type) {
			case nil:
				members[name] = child
			case []any:
				members[name] = append(existing, child)
			default:
				members[name] = []any{existing, child}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if children == 0 && len(start.Attr) == 0 {
				return s, nil
			}
			if s != "" {
				members["#text"] = s
			}
			return members, nil
		}
	}
}
