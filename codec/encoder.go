package codec

// Encoder turns request data into body bytes.
type Encoder struct {
	writers *WriterRegistry
}

// NewEncoder creates an encoder over a writer registry.
func NewEncoder(writers *WriterRegistry) *Encoder {
	return &Encoder{writers: writers}
}

// Writers returns the registry used for lookups.
func (e *Encoder) Writers() *WriterRegistry {
	return e.writers
}

// Encode serializes v for contentType. Strings and byte slices are sent
// as is without a writer lookup.
func (e *Encoder) Encode(v any, contentType string) ([]byte, error) {
	switch b := v.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	}
	w, err := e.writers.Find(contentType, contentType)
	if err != nil {
		return nil, err
	}
	text, err := w.Write(v)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
