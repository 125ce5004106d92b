package httpclient

import (
	"bufio"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
)

// decodedBody wraps a decoding reader and closes every layer beneath it.
type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (b *decodedBody) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// decompress undoes the Content-Encoding of body. Encodings are removed in
// reverse order of application; unknown ones are left in place. An empty
// body is returned as is.
func decompress(body io.ReadCloser, contentEncoding string) (io.ReadCloser, error) {
	encodings := splitEncodings(contentEncoding)
	if len(encodings) == 0 {
		return body, nil
	}

	br := bufio.NewReader(body)
	if _, err := br.Peek(1); err != nil {
		return &decodedBody{Reader: br, closers: []io.Closer{body}}, nil
	}

	out := &decodedBody{Reader: br, closers: []io.Closer{body}}
	for i := len(encodings) - 1; i >= 0; i-- {
		switch encodings[i] {
		case "gzip", "x-gzip":
			zr, err := gzip.NewReader(out.Reader)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			out.Reader = zr
			out.closers = append(out.closers, zr)
		case "deflate":
			r, c, err := inflate(out.Reader)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			out.Reader = r
			out.closers = append(out.closers, c)
		case "zstd":
			zr, err := zstd.NewReader(out.Reader)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			out.Reader = zr
			out.closers = append(out.closers, closerFunc(func() error {
				zr.Close()
				return nil
			}))
		default:
			return out, nil
		}
	}
	return out, nil
}

// inflate reads "deflate" content, which servers send either zlib-wrapped
// or as a raw deflate stream.
func inflate(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	if len(head) == 2 && head[0]&0x0f == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr, nil
	}
	fr := flate.NewReader(br)
	return fr, fr, nil
}

func splitEncodings(header string) []string {
	var out []string
	for _, part := range strings.Split(header, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" && part != "identity" {
			out = append(out, part)
		}
	}
	return out
}

// textReader converts r from the named character set to UTF-8. Unknown or
// empty labels are read as UTF-8.
func textReader(r io.Reader, label string) io.Reader {
	label = strings.ToLower(strings.Trim(strings.TrimSpace(label), `"`))
	if label == "" || label == "utf-8" || label == "utf8" {
		return r
	}
	cr, err := charset.NewReaderLabel(label, r)
	if err != nil {
		return r
	}
	return cr
}
