package uri

import "strings"

// Composer builds a full request URI.
type Composer interface {
	Compose(baseURI, path string, query any, asSegments bool) string
}

// DefaultComposer joins base and path and renders query with
// ToQueryString or ToSegments.
type DefaultComposer struct{}

var _ Composer = DefaultComposer{}

// NewComposer returns the default composer.
func NewComposer() DefaultComposer {
	return DefaultComposer{}
}

// Compose returns path unchanged when baseURI is empty. Otherwise baseURI
// gets a trailing '/' if missing and path loses one leading '/'. A nil
// query adds nothing.
func (DefaultComposer) Compose(baseURI, path string, query any, asSegments bool) string {
	uri := path
	if baseURI != "" {
		if !strings.HasSuffix(baseURI, "/") {
			baseURI += "/"
		}
		uri = baseURI + strings.TrimPrefix(path, "/")
	}
	if query == nil {
		return uri
	}
	if asSegments {
		return uri + ToSegments(query)
	}
	return uri + ToQueryString(query)
}

// ToQueryString renders "?n1=v1&n2=v2" with escaped values, or "" when
// query has no properties.
func ToQueryString(query any) string {
	props := Properties(query)
	if len(props) == 0 {
		return ""
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Name + "=" + Escape(p.Value)
	}
	return "?" + strings.Join(parts, "&")
}

// ToSegments renders "/v1/v2" with escaped values, or "" when query has no
// properties.
func ToSegments(query any) string {
	props := Properties(query)
	if len(props) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range props {
		b.WriteByte('/')
		b.WriteString(Escape(p.Value))
	}
	return b.String()
}
