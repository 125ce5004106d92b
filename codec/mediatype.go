package codec

import (
	"path/filepath"
	"strings"
)

// ParseMediaType strips parameters from a Content-Type or Accept entry and
// returns the lower-cased bare type. "Application/JSON; charset=utf-8"
// becomes "application/json".
func ParseMediaType(header string) string {
	if i := strings.IndexByte(header, ';'); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}

// SplitAccept splits an Accept header into trimmed media types, dropping
// empty entries.
func SplitAccept(accept string) []string {
	parts := strings.Split(accept, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeExtension returns ext in ".ext" lower-case form. It accepts
// "json", ".JSON" and "report.json" alike.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if e := filepath.Ext(ext); e != "" {
		ext = e
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}
