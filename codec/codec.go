package codec

// Reader deserializes text of the media types it advertises.
type Reader interface {
	// ContentTypes returns the MIME patterns handled by the reader.
	ContentTypes() []string
	// Read parses text into the value pointed to by v.
	Read(text string, v any) error
	// ReadDynamic parses text into a generic tree of maps, slices and
	// scalars.
	ReadDynamic(text string) (any, error)
}

// Writer serializes values to the media types it advertises.
type Writer interface {
	// ContentTypes returns the MIME patterns handled by the writer.
	ContentTypes() []string
	// FileExtensions returns extensions associated with the output format.
	FileExtensions() []string
	// Write serializes v to text.
	Write(v any) (string, error)
}

// Codec both reads and writes a family of media types.
type Codec interface {
	Reader
	Writer
}
