package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/fluenthttp/codec"
	"github.com/kbukum/fluenthttp/errors"
	"github.com/kbukum/fluenthttp/version"
)

// BodyMode selects what feeds the request body.
type BodyMode int

const (
	// BodyNone sends no body.
	BodyNone BodyMode = iota
	// BodyData sends Data encoded for ContentType.
	BodyData
	// BodyFile streams the local file PutFilename.
	BodyFile
	// BodyMultipart streams multipart/form-data built from the form fields
	// and file attachments.
	BodyMultipart
)

// String returns the body mode name.
func (m BodyMode) String() string {
	switch m {
	case BodyData:
		return "data"
	case BodyFile:
		return "file"
	case BodyMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Request describes the next exchange of a Client. It is mutated in place
// by every verb call and is not safe for concurrent use.
//
// String and time fields are only sent when non-zero.
type Request struct {
	URI    string
	Method string

	Accept          string
	AcceptCharset   string
	AcceptEncoding  string
	AcceptLanguage  string
	ContentType     string
	ContentEncoding string
	UserAgent       string
	Referer         string
	From            string
	Host            string
	IfMatch         string
	IfModifiedSince time.Time
	Date            time.Time

	// MaxForwards limits automatic redirects for this request. Zero keeps
	// the client limit.
	MaxForwards int

	// Range requests a byte range: "bytes=N-" for positive N and the last
	// -N bytes for negative N.
	Range int64

	// KeepAlive false sends "Connection: close".
	KeepAlive bool

	// Expect sends "Expect: 100-continue".
	Expect bool

	Timeout              time.Duration
	AllowAutoRedirect    bool
	ParametersAsSegments bool
	ForceBasicAuth       bool
	PersistCookies       bool

	Cookies            []*http.Cookie
	ClientCertificates []tls.Certificate
	CachePolicy        *CachePolicy

	// Data is encoded with the codec matching ContentType.
	Data any
	// PutFilename is the local file sent as the body.
	PutFilename string
	// MultipartFormData and MultipartFileData are sent as
	// multipart/form-data.
	MultipartFormData Fields
	MultipartFileData []FileData

	headers     *Headers
	credentials *Credentials
	encoder     *codec.Encoder
}

// NewRequest creates a request with default settings. encoder serializes
// data bodies.
func NewRequest(encoder *codec.Encoder) *Request {
	return &Request{
		Accept:            DefaultAccept,
		UserAgent:         version.UserAgent(),
		KeepAlive:         true,
		Timeout:           DefaultTimeout,
		AllowAutoRedirect: true,
		headers:           NewHeaders(),
		encoder:           encoder,
	}
}

// AddExtraHeader adds a header sent with every request. Existing keys are
// kept: the first value added for a key wins.
func (r *Request) AddExtraHeader(key string, value any) bool {
	return r.headers.Add(key, value)
}

// ExtraHeaders returns the extra header set.
func (r *Request) ExtraHeaders() *Headers {
	return r.headers
}

// SetExtraHeaders replaces the extra header set. Nil clears it.
func (r *Request) SetExtraHeaders(h *Headers) {
	if h == nil {
		h = NewHeaders()
	}
	r.headers = h
}

// ClearExtraHeaders removes all extra headers.
func (r *Request) ClearExtraHeaders() {
	r.headers = NewHeaders()
}

// SetData selects an encoded data body.
func (r *Request) SetData(data any) {
	r.ClearBody()
	r.Data = data
}

// SetPutFile selects a local file body.
func (r *Request) SetPutFile(filename string) {
	r.ClearBody()
	r.PutFilename = filename
}

// SetMultipart selects a multipart body.
func (r *Request) SetMultipart(fields Fields, files []FileData) {
	r.ClearBody()
	r.MultipartFormData = fields
	r.MultipartFileData = files
}

// ClearBody deselects every body mode.
func (r *Request) ClearBody() {
	r.Data = nil
	r.PutFilename = ""
	r.MultipartFormData = nil
	r.MultipartFileData = nil
}

// BodyMode returns the body mode Prepare would use. When several are set
// data wins over file, and file over multipart.
func (r *Request) BodyMode() BodyMode {
	switch {
	case r.Data != nil:
		return BodyData
	case r.PutFilename != "":
		return BodyFile
	case len(r.MultipartFormData) > 0 || len(r.MultipartFileData) > 0:
		return BodyMultipart
	default:
		return BodyNone
	}
}

// reset readies the request for a new verb call.
func (r *Request) reset(method, uri string) {
	r.Method = method
	r.URI = uri
	r.ClearBody()
	r.Expect = false
	r.ContentEncoding = ""
	r.KeepAlive = true
}

// Prepare builds the transport request.
func (r *Request) Prepare(ctx context.Context) (*http.Request, error) {
	_, req, err := r.prepare(ctx)
	return req, err
}

// prepare builds the transport request and reports whether basic
// credentials must be answered through a challenge.
func (r *Request) prepare(ctx context.Context) (bool, *http.Request, error) {
	body, err := r.body()
	if err != nil {
		return false, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URI, nil)
	if err != nil {
		if body != nil {
			_ = body.reader.Close()
		}
		return false, nil, errors.InvalidArgument("uri", err.Error()).WithCause(err)
	}

	contentType := r.ContentType
	if body != nil {
		if body.length > 0 {
			req.Body = body.reader
			req.GetBody = body.replay
			req.ContentLength = body.length
		} else {
			_ = body.reader.Close()
			req.Body = http.NoBody
		}
		if body.contentType != "" {
			contentType = body.contentType
		}
	}

	r.setDefaultHeaders(req, contentType)
	r.setConditionalHeaders(req)
	challenge := r.applyAuth(req)

	extra := r.headers.Clone()
	extra.addString("From", r.From)
	extra.addString("Accept-Charset", r.AcceptCharset)
	extra.addString("Accept-Encoding", r.AcceptEncoding)
	extra.addString("Accept-Language", r.AcceptLanguage)
	extra.addString("If-Match", r.IfMatch)
	extra.addString("Content-Encoding", r.ContentEncoding)
	extra.Each(func(key, value string) {
		req.Header.Add(key, value)
	})

	return challenge, req, nil
}

func (r *Request) setDefaultHeaders(req *http.Request, contentType string) {
	h := req.Header
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	if r.Accept != "" {
		h.Set("Accept", r.Accept)
	}
	if r.UserAgent != "" {
		h.Set("User-Agent", r.UserAgent)
	}
	if r.Referer != "" {
		h.Set("Referer", r.Referer)
	}
	if r.CachePolicy != nil {
		cc, pragma := r.CachePolicy.headers()
		if cc != "" {
			h.Set("Cache-Control", cc)
		}
		if pragma != "" {
			h.Set("Pragma", pragma)
		}
	}
	req.Close = !r.KeepAlive
	if r.AcceptEncoding == "" && !r.headers.Has("Accept-Encoding") {
		h.Set("Accept-Encoding", "gzip, deflate")
	}
}

func (r *Request) setConditionalHeaders(req *http.Request) {
	h := req.Header
	if !r.IfModifiedSince.IsZero() {
		h.Set("If-Modified-Since", r.IfModifiedSince.UTC().Format(http.TimeFormat))
	}
	if !r.Date.IsZero() {
		h.Set("Date", r.Date.UTC().Format(http.TimeFormat))
	}
	if r.Host != "" {
		req.Host = r.Host
	}
	switch {
	case r.Range > 0:
		h.Set("Range", "bytes="+strconv.FormatInt(r.Range, 10)+"-")
	case r.Range < 0:
		h.Set("Range", "bytes="+strconv.FormatInt(r.Range, 10))
	}
	if r.Expect {
		h.Set("Expect", "100-continue")
	}
}

// requestBody is a prepared body with a way to produce it again for a
// replayed request.
type requestBody struct {
	reader      io.ReadCloser
	replay      func() (io.ReadCloser, error)
	length      int64
	contentType string
}

func (r *Request) body() (*requestBody, error) {
	switch r.BodyMode() {
	case BodyData:
		return r.dataBody()
	case BodyFile:
		return fileBody(r.PutFilename, r.ContentType)
	case BodyMultipart:
		return multipartBody(NewMultipartStreamer(r.MultipartFormData, r.MultipartFileData))
	default:
		return nil, nil
	}
}

func (r *Request) dataBody() (*requestBody, error) {
	if r.encoder == nil {
		return nil, errors.InvalidArgument("encoder", "no encoder configured for data bodies")
	}
	data, err := r.encoder.Encode(r.Data, r.ContentType)
	if err != nil {
		return nil, err
	}
	replay := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	rc, _ := replay()
	return &requestBody{reader: rc, replay: replay, length: int64(len(data))}, nil
}

func fileBody(path, contentType string) (*requestBody, error) {
	open := func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.FromFileError("open", path, err)
		}
		return f, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.FromFileError("stat", path, err)
	}
	rc, err := open()
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = detectContentType(path)
	}
	return &requestBody{reader: rc, replay: open, length: info.Size(), contentType: contentType}, nil
}

func multipartBody(s *MultipartStreamer) (*requestBody, error) {
	length, err := s.ContentLength()
	if err != nil {
		return nil, err
	}
	replay := func() (io.ReadCloser, error) {
		return newStreamBody(s), nil
	}
	return &requestBody{reader: newStreamBody(s), replay: replay, length: length, contentType: s.ContentType()}, nil
}

// streamBody feeds a multipart stream through a pipe. The writer goroutine
// starts on the first Read and stops when the body is closed.
type streamBody struct {
	once sync.Once
	s    *MultipartStreamer
	pr   *io.PipeReader
	pw   *io.PipeWriter
}

func newStreamBody(s *MultipartStreamer) *streamBody {
	pr, pw := io.Pipe()
	return &streamBody{s: s, pr: pr, pw: pw}
}

func (b *streamBody) Read(p []byte) (int, error) {
	b.once.Do(func() {
		go func() {
			_ = b.pw.CloseWithError(b.s.StreamInto(b.pw))
		}()
	})
	return b.pr.Read(p)
}

func (b *streamBody) Close() error {
	return b.pr.Close()
}
