package httpclient

import (
	"strings"

	"github.com/kbukum/fluenthttp/uri"
)

type headerEntry struct {
	key   string
	value string
}

// Headers is an ordered set of extra request headers with case-insensitive
// keys.
//
// The first value stored for a key wins: adding a key that is already
// present, in any casing, leaves the existing value in place. Nil values
// and empty keys are ignored. Callers relying on replacement must build a
// new set. The zero value is an empty set ready to use.
type Headers struct {
	entries []headerEntry
	index   map[string]int
}

// NewHeaders creates an empty header set.
func NewHeaders() *Headers {
	return &Headers{index: make(map[string]int)}
}

// Add stores value under key unless key is already present. Values are
// rendered with uri.Stringify. It reports whether the header was stored.
func (h *Headers) Add(key string, value any) bool {
	if key == "" {
		return false
	}
	s, ok := uri.Stringify(value)
	if !ok {
		return false
	}
	lk := strings.ToLower(key)
	if _, exists := h.index[lk]; exists {
		return false
	}
	if h.index == nil {
		h.index = make(map[string]int)
	}
	h.index[lk] = len(h.entries)
	h.entries = append(h.entries, headerEntry{key: key, value: s})
	return true
}

// addString is Add for named request fields, where an empty string means
// unset.
func (h *Headers) addString(key, value string) {
	if value != "" {
		h.Add(key, value)
	}
}

// Get returns the value stored for key.
func (h *Headers) Get(key string) (string, bool) {
	i, ok := h.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	return h.entries[i].value, true
}

// Has reports whether key is present.
func (h *Headers) Has(key string) bool {
	_, ok := h.index[strings.ToLower(key)]
	return ok
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	return len(h.entries)
}

// Keys returns the keys in insertion order, with their original casing.
func (h *Headers) Keys() []string {
	keys := make([]string, len(h.entries))
	for i, e := range h.entries {
		keys[i] = e.key
	}
	return keys
}

// Each calls fn for every header in insertion order.
func (h *Headers) Each(fn func(key, value string)) {
	for _, e := range h.entries {
		fn(e.key, e.value)
	}
}

// Lines renders the set as "Key: Value" lines in insertion order.
func (h *Headers) Lines() []string {
	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.key + ": " + e.value
	}
	return lines
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	c := &Headers{
		entries: make([]headerEntry, len(h.entries)),
		index:   make(map[string]int, len(h.index)),
	}
	copy(c.entries, h.entries)
	for k, v := range h.index {
		c.index[k] = v
	}
	return c
}
