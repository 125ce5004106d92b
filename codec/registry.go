package codec

import (
	"regexp"
	"strings"

	"github.com/kbukum/fluenthttp/errors"
)

type entry[T any] struct {
	pattern string
	re      *regexp.Regexp
	codec   T
}

type patternTable[T any] struct {
	entries []entry[T]
	seen    map[string]bool
}

func (t *patternTable[T]) add(pattern string, c T) error {
	if pattern == "" {
		return nil
	}
	key := strings.ToLower(pattern)
	if t.seen[key] {
		return nil
	}
	re, err := regexp.Compile("(?s)" + pattern)
	if err != nil {
		return errors.InvalidArgument("content type pattern", err.Error()).WithDetail("pattern", pattern)
	}
	t.seen[key] = true
	t.entries = append(t.entries, entry[T]{pattern: pattern, re: re, codec: c})
	return nil
}

// match never matches an empty media type, even against a catch-all
// pattern.
func (t *patternTable[T]) match(mediaType string) (T, bool) {
	var zero T
	if mediaType == "" {
		return zero, false
	}
	for _, e := range t.entries {
		if e.re.MatchString(mediaType) {
			return e.codec, true
		}
	}
	return zero, false
}

func (t *patternTable[T]) patterns() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.pattern
	}
	return out
}

// ReaderRegistry maps MIME patterns to readers.
type ReaderRegistry struct {
	table patternTable[Reader]
}

// NewReaderRegistry registers the patterns of each reader in order.
// Empty patterns are skipped; a duplicate pattern keeps its first reader.
func NewReaderRegistry(readers ...Reader) (*ReaderRegistry, error) {
	r := &ReaderRegistry{table: patternTable[Reader]{seen: make(map[string]bool)}}
	for _, rd := range readers {
		if rd == nil {
			continue
		}
		for _, p := range rd.ContentTypes() {
			if err := r.table.add(p, rd); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Find returns the reader for a Content-Type header.
func (r *ReaderRegistry) Find(contentType string) (Reader, error) {
	mt := ParseMediaType(contentType)
	if rd, ok := r.table.match(mt); ok {
		return rd, nil
	}
	return nil, errors.UnsupportedMediaType(contentType)
}

// Patterns returns the registered patterns in lookup order.
func (r *ReaderRegistry) Patterns() []string {
	return r.table.patterns()
}

// WriterRegistry maps MIME patterns and file extensions to writers.
type WriterRegistry struct {
	table      patternTable[Writer]
	extensions map[string]Writer
	fallback   Writer
}

// NewWriterRegistry registers the patterns and extensions of each writer
// in order. The first writer becomes the default.
func NewWriterRegistry(writers ...Writer) (*WriterRegistry, error) {
	r := &WriterRegistry{
		table:      patternTable[Writer]{seen: make(map[string]bool)},
		extensions: make(map[string]Writer),
	}
	for _, w := range writers {
		if w == nil {
			continue
		}
		if r.fallback == nil {
			r.fallback = w
		}
		for _, p := range w.ContentTypes() {
			if err := r.table.add(p, w); err != nil {
				return nil, err
			}
		}
		for _, ext := range w.FileExtensions() {
			ext = NormalizeExtension(ext)
			if _, dup := r.extensions[ext]; ext == "" || dup {
				continue
			}
			r.extensions[ext] = w
		}
	}
	return r, nil
}

// Find returns the writer for the first acceptable media type, falling back
// to the Content-Type header.
func (r *WriterRegistry) Find(accept, contentType string) (Writer, error) {
	for _, mt := range SplitAccept(accept) {
		if w, ok := r.table.match(ParseMediaType(mt)); ok {
			return w, nil
		}
	}
	if w, ok := r.table.match(ParseMediaType(contentType)); ok {
		return w, nil
	}
	if contentType == "" {
		return nil, errors.UnsupportedMediaType(accept)
	}
	return nil, errors.UnsupportedMediaType(contentType)
}

// FindByExtension returns the writer registered for a file extension.
func (r *WriterRegistry) FindByExtension(ext string) (Writer, error) {
	if w, ok := r.extensions[NormalizeExtension(ext)]; ok {
		return w, nil
	}
	return nil, errors.UnsupportedMediaType(ext)
}

// Default returns the first registered writer, or nil for an empty registry.
func (r *WriterRegistry) Default() Writer {
	return r.fallback
}

// Patterns returns the registered patterns in lookup order.
func (r *WriterRegistry) Patterns() []string {
	return r.table.patterns()
}
