// Package codec implements content negotiation for request and response
// bodies.
//
// A Reader parses text into typed values or a dynamic Value tree, a Writer
// serializes values to text. Both advertise the MIME types they handle as
// regular expression patterns. Registries are built once from an ordered
// codec list and then only read:
//
//	readers, _ := codec.NewReaderRegistry(jsoncodec.New(), xmlcodec.New())
//	dec := codec.NewDecoder(readers)
//	v, err := dec.DecodeDynamic(`{"name":"x"}`, "application/json; charset=utf-8")
//
// Lookup strips media type parameters, then tests each pattern in
// registration order; the first match wins. A pattern registered twice
// (compared case-insensitively) keeps its first codec.
package codec
