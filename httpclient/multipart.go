package httpclient

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/kbukum/fluenthttp/errors"
	"github.com/kbukum/fluenthttp/uri"
)

// copyChunkSize is the buffer size used when copying files to and from
// the network.
const copyChunkSize = 8192

// TransferEncoding is the Content-Transfer-Encoding of an uploaded file.
type TransferEncoding string

const (
	EncodingBinary          TransferEncoding = "binary"
	EncodingBase64          TransferEncoding = "base64"
	Encoding7Bit            TransferEncoding = "7bit"
	Encoding8Bit            TransferEncoding = "8bit"
	EncodingQuotedPrintable TransferEncoding = "quoted-printable"
)

// FileData describes a local file attached to a multipart request.
type FileData struct {
	// FieldName is the form field name.
	FieldName string
	// Filename is the local path. Only its base name is sent.
	Filename string
	// ContentType is the part media type. When empty it is detected from
	// the file contents.
	ContentType string
	// TransferEncoding defaults to binary. Only base64 changes the bytes
	// sent; other values are labels.
	TransferEncoding TransferEncoding
}

// Field is a multipart form field. Nil values are sent as empty strings.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered list of form fields.
type Fields []Field

type filePart struct {
	file   FileData
	header string
	size   int64
}

// MultipartStreamer writes a multipart/form-data body without buffering
// file contents. ContentLength is computed from file metadata and always
// equals the number of bytes StreamInto writes.
type MultipartStreamer struct {
	fields   Fields
	files    []FileData
	boundary string
	ctype    string
	parts    []filePart
}

// NewMultipartStreamer creates a streamer with a fresh boundary.
func NewMultipartStreamer(fields Fields, files []FileData) *MultipartStreamer {
	token := boundaryToken()
	return &MultipartStreamer{
		fields:   fields,
		files:    files,
		boundary: "\r\n----------------" + token,
		ctype:    "multipart/form-data; boundary=--------------" + token,
	}
}

// boundaryToken returns a time-ordered token, unique per streamer.
func boundaryToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// ContentType returns the Content-Type header value including the boundary.
func (s *MultipartStreamer) ContentType() string {
	return s.ctype
}

// ContentLength returns the exact body size. A missing file is reported as
// errors.ErrCodeFileNotFound.
func (s *MultipartStreamer) ContentLength() (int64, error) {
	parts, err := s.resolve()
	if err != nil {
		return 0, err
	}
	n := int64(len(s.boundary))
	for _, f := range s.fields {
		n += int64(len(fieldHeader(f)) + len(s.boundary))
	}
	for _, p := range parts {
		n += int64(len(p.header)) + encodedSize(p.file.TransferEncoding, p.size) + int64(len(s.boundary))
	}
	return n + 2, nil
}

// StreamInto writes the body to w. Files are opened one at a time and
// closed before the next part.
func (s *MultipartStreamer) StreamInto(w io.Writer) error {
	parts, err := s.resolve()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.boundary); err != nil {
		return err
	}
	for _, f := range s.fields {
		if _, err := io.WriteString(w, fieldHeader(f)+s.boundary); err != nil {
			return err
		}
	}
	for _, p := range parts {
		if _, err := io.WriteString(w, p.header); err != nil {
			return err
		}
		if err := copyFile(w, p.file); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s.boundary); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "--")
	return err
}

// resolve stats every file once and fixes the part headers, so both passes
// agree on detected content types.
func (s *MultipartStreamer) resolve() ([]filePart, error) {
	if s.parts != nil || len(s.files) == 0 {
		return s.parts, nil
	}
	parts := make([]filePart, 0, len(s.files))
	for _, f := range s.files {
		info, err := os.Stat(f.Filename)
		if err != nil {
			return nil, errors.FromFileError("stat", f.Filename, err)
		}
		if f.TransferEncoding == "" {
			f.TransferEncoding = EncodingBinary
		}
		if f.ContentType == "" {
			f.ContentType = detectContentType(f.Filename)
		}
		parts = append(parts, filePart{file: f, header: fileHeader(f), size: info.Size()})
	}
	s.parts = parts
	return parts, nil
}

func fieldHeader(f Field) string {
	value, _ := uri.Stringify(f.Value)
	return "\r\nContent-Disposition: form-data; name=\"" + escapeQuotes(f.Name) + "\"\r\n\r\n" + value
}

func fileHeader(f FileData) string {
	return "\r\nContent-Disposition: form-data; name=\"" + escapeQuotes(f.FieldName) +
		"\"; filename=\"" + escapeQuotes(filepath.Base(f.Filename)) +
		"\"\r\nContent-Type: " + f.ContentType +
		"\r\nContent-Transfer-Encoding: " + string(f.TransferEncoding) + "\r\n\r\n"
}

func encodedSize(enc TransferEncoding, size int64) int64 {
	if enc == EncodingBase64 {
		return int64(base64.StdEncoding.EncodedLen(int(size)))
	}
	return size
}

func copyFile(w io.Writer, f FileData) (err error) {
	file, err := os.Open(f.Filename)
	if err != nil {
		return errors.FromFileError("open", f.Filename, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.IO("close", f.Filename, cerr)
		}
	}()

	dst := w
	var b64 io.WriteCloser
	if f.TransferEncoding == EncodingBase64 {
		b64 = base64.NewEncoder(base64.StdEncoding, w)
		dst = b64
	}
	if err := copyChunks(dst, file); err != nil {
		return errors.IO("read", f.Filename, err)
	}
	if b64 != nil {
		return b64.Close()
	}
	return nil
}

// copyChunks copies src to dst in copyChunkSize reads.
func copyChunks(dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func detectContentType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

// escapeQuotes backslash-escapes quotes and backslashes in header values.
func escapeQuotes(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
