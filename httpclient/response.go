package httpclient

import (
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/fluenthttp/codec"
	"github.com/kbukum/fluenthttp/errors"
)

// Response is the result of the last exchange of a Client. Headers are
// read eagerly; the body is buffered as RawText unless the client streams
// responses or writes them to a file.
type Response struct {
	StatusCode        int
	StatusDescription string

	// RawHeaders holds every response header. Header order is not kept.
	RawHeaders http.Header

	// RawText is the body decoded to UTF-8. Empty for streamed and file
	// responses.
	RawText string

	// CharacterSet is the charset parameter of Content-Type.
	CharacterSet    string
	ContentType     string
	ContentEncoding string

	// ContentLength is -1 when the server did not declare it.
	ContentLength int64

	Cookies []*http.Cookie

	// Age is zero when absent or unparsable.
	Age int

	// Expires and LastModified are zero when absent or unparsable.
	Expires      time.Time
	LastModified time.Time

	// Date is the server date, or the receive time when absent.
	Date time.Time

	ETag               string
	Location           string
	ContentLanguage    string
	ContentLocation    string
	ContentDisposition string
	Server             string
	CacheControl       string
	Pragma             string
	Allow              []string

	stream  io.ReadCloser
	decoder *codec.Decoder
}

func newResponse(resp *http.Response, decoder *codec.Decoder) *Response {
	h := resp.Header
	r := &Response{
		StatusCode:         resp.StatusCode,
		StatusDescription:  statusDescription(resp),
		RawHeaders:         h,
		ContentType:        h.Get("Content-Type"),
		ContentEncoding:    h.Get("Content-Encoding"),
		ContentLength:      resp.ContentLength,
		Cookies:            resp.Cookies(),
		ETag:               unquote(h.Get("ETag")),
		Location:           h.Get("Location"),
		ContentLanguage:    h.Get("Content-Language"),
		ContentLocation:    h.Get("Content-Location"),
		ContentDisposition: h.Get("Content-Disposition"),
		Server:             h.Get("Server"),
		CacheControl:       h.Get("Cache-Control"),
		Pragma:             h.Get("Pragma"),
		decoder:            decoder,
	}
	if r.ContentType != "" {
		if _, params, err := mime.ParseMediaType(r.ContentType); err == nil {
			r.CharacterSet = params["charset"]
		}
	}
	if age, err := strconv.Atoi(strings.TrimSpace(h.Get("Age"))); err == nil && age > 0 {
		r.Age = age
	}
	r.Expires = parseTime(h.Get("Expires"))
	r.LastModified = parseTime(h.Get("Last-Modified"))
	if r.Date = parseTime(h.Get("Date")); r.Date.IsZero() {
		r.Date = time.Now()
	}
	for _, v := range h.Values("Allow") {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				r.Allow = append(r.Allow, m)
			}
		}
	}
	return r
}

func statusDescription(resp *http.Response) string {
	desc := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if desc == "" {
		desc = http.StatusText(resp.StatusCode)
	}
	return desc
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func unquote(v string) string {
	v = strings.TrimPrefix(v, "W/")
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// readText buffers body as UTF-8 text.
func (r *Response) readText(body io.Reader) error {
	b, err := io.ReadAll(textReader(body, r.CharacterSet))
	if err != nil {
		return err
	}
	r.RawText = string(b)
	return nil
}

// writeFile copies body to a new file at path. An existing file is never
// overwritten.
func (r *Response) writeFile(body io.Reader, path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.FromFileError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.IO("close", path, cerr)
		}
	}()
	if err := copyChunks(f, body); err != nil {
		return errors.IO("write", path, err)
	}
	return nil
}

// ResponseStream returns the open body in streaming mode, or nil.
func (r *Response) ResponseStream() io.ReadCloser {
	return r.stream
}

// Close releases a streamed body. It is a no-op otherwise.
func (r *Response) Close() error {
	if r.stream == nil {
		return nil
	}
	err := r.stream.Close()
	r.stream = nil
	return err
}

// DynamicBody decodes RawText into a Value tree using the codec matching
// ContentType. Every call decodes anew.
func (r *Response) DynamicBody() (*codec.Value, error) {
	if r.decoder == nil {
		return nil, errors.InvalidArgument("decoder", "response has no decoder")
	}
	return r.decoder.DecodeDynamic(r.RawText, r.ContentType)
}

// DecodeInto decodes RawText into v. An override content type replaces
// the response Content-Type for codec selection.
func (r *Response) DecodeInto(v any, overrideContentType ...string) error {
	if r.decoder == nil {
		return errors.InvalidArgument("decoder", "response has no decoder")
	}
	ct := r.ContentType
	if len(overrideContentType) > 0 && overrideContentType[0] != "" {
		ct = overrideContentType[0]
	}
	return r.decoder.DecodeInto(r.RawText, ct, v)
}

// TypedBody decodes the body of resp into a new T.
func TypedBody[T any](resp *Response, overrideContentType ...string) (T, error) {
	var out T
	err := resp.DecodeInto(&out, overrideContentType...)
	return out, err
}
