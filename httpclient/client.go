package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fluenthttp/codec/defaultcodec"
	"github.com/kbukum/fluenthttp/errors"
	"github.com/kbukum/fluenthttp/logger"
	"github.com/kbukum/fluenthttp/uri"
)

// Client sends requests and keeps the last Request and Response.
//
// A Client is not safe for concurrent use: every verb resets and reuses
// the same Request and replaces the Response. Distinct clients share no
// state.
type Client struct {
	cfg       Config
	codecs    defaultcodec.Configuration
	composer  uri.Composer
	log       *logger.Logger
	telemetry *telemetry

	customTransport http.RoundTripper
	transport       *http.Transport
	transportCerts  []tls.Certificate
	jar             http.CookieJar

	request  *Request
	response *Response
}

type options struct {
	codecs         defaultcodec.Configuration
	composer       uri.Composer
	zl             *zerolog.Logger
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithCodecs replaces the default codec set.
func WithCodecs(codecs defaultcodec.Configuration) Option {
	return func(o *options) { o.codecs = codecs }
}

// WithComposer replaces the URI composer.
func WithComposer(c uri.Composer) Option {
	return func(o *options) { o.composer = c }
}

// WithLogger logs exchanges to zl regardless of Config.Logging.
func WithLogger(zl zerolog.Logger) Option {
	return func(o *options) { o.zl = &zl }
}

// WithTransport replaces the transport. TLS settings and client
// certificates are then the transport's concern.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codecs == nil {
		o.codecs = defaultcodec.Default()
	}
	if o.composer == nil {
		o.composer = uri.NewComposer()
	}

	tel, err := newTelemetry(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:             cfg,
		codecs:          o.codecs,
		composer:        o.composer,
		telemetry:       tel,
		customTransport: o.transport,
	}
	switch {
	case o.zl != nil:
		c.log = logger.Wrap(*o.zl, "httpclient")
	case cfg.Logging:
		c.log = logger.New(&cfg.Log, "httpclient")
	default:
		c.log = logger.Nop()
	}

	c.request = c.newRequest()
	return c, nil
}

// newRequest seeds a request from the client configuration.
func (c *Client) newRequest() *Request {
	r := NewRequest(c.codecs.Encoder())
	r.Accept = c.cfg.Accept
	r.UserAgent = c.cfg.UserAgent
	r.Timeout = c.cfg.Timeout
	r.AllowAutoRedirect = !c.cfg.DisableRedirects
	r.ParametersAsSegments = c.cfg.ParametersAsSegments
	r.PersistCookies = c.cfg.PersistCookies

	keys := make([]string, 0, len(c.cfg.Headers))
	for k := range c.cfg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.AddExtraHeader(k, c.cfg.Headers[k])
	}
	return r
}

// BaseURI returns the configured base URL.
func (c *Client) BaseURI() string { return c.cfg.BaseURL }

// Request returns the request used by the next verb call.
func (c *Client) Request() *Request { return c.request }

// Response returns the response of the last call, or nil.
func (c *Client) Response() *Response { return c.response }

// Codecs returns the codec set used for bodies.
func (c *Client) Codecs() defaultcodec.Configuration { return c.codecs }

// SetThrowOnHTTPError sets whether 4xx and 5xx responses return an *Error.
func (c *Client) SetThrowOnHTTPError(v bool) { c.cfg.ThrowOnHTTPError = v }

// SetStreamResponse sets whether response bodies are left open.
func (c *Client) SetStreamResponse(v bool) { c.cfg.StreamResponse = v }

// AddClientCertificates attaches client certificates to later requests.
func (c *Client) AddClientCertificates(certs ...tls.Certificate) {
	c.request.ClientCertificates = append(c.request.ClientCertificates, certs...)
}

func (c *Client) init(method, path string, query any) {
	r := c.request
	r.reset(method, c.composer.Compose(c.cfg.BaseURL, path, query, r.ParametersAsSegments))
}

// Get sends a GET request. query is rendered as a query string or as path
// segments; nil adds nothing.
func (c *Client) Get(ctx context.Context, path string, query any) (*Response, error) {
	c.init(http.MethodGet, path, query)
	return c.process(ctx, "")
}

// GetAsFile sends a GET request and writes the body to filename, which
// must not exist.
func (c *Client) GetAsFile(ctx context.Context, path, filename string) (*Response, error) {
	c.init(http.MethodGet, path, nil)
	return c.process(ctx, filename)
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string) (*Response, error) {
	c.init(http.MethodOptions, path, nil)
	return c.process(ctx, "")
}

// Post sends data encoded for contentType.
func (c *Client) Post(ctx context.Context, path string, data any, contentType string) (*Response, error) {
	c.init(http.MethodPost, path, nil)
	c.request.ContentType = contentType
	c.request.SetData(data)
	return c.process(ctx, "")
}

// PostMultipart sends form fields and file attachments as
// multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields Fields, files []FileData) (*Response, error) {
	c.init(http.MethodPost, path, nil)
	c.request.SetMultipart(fields, files)
	c.request.KeepAlive = true
	return c.process(ctx, "")
}

// Put sends data encoded for contentType.
func (c *Client) Put(ctx context.Context, path string, data any, contentType string) (*Response, error) {
	c.init(http.MethodPut, path, nil)
	c.request.ContentType = contentType
	c.request.SetData(data)
	return c.process(ctx, "")
}

// Patch sends data encoded for contentType.
func (c *Client) Patch(ctx context.Context, path string, data any, contentType string) (*Response, error) {
	c.init(http.MethodPatch, path, nil)
	c.request.ContentType = contentType
	c.request.SetData(data)
	return c.process(ctx, "")
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query any) (*Response, error) {
	c.init(http.MethodDelete, path, query)
	return c.process(ctx, "")
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, path string, query any) (*Response, error) {
	c.init(http.MethodHead, path, query)
	return c.process(ctx, "")
}

// PutFile streams a local file as the body. An empty contentType is
// detected from the file contents.
func (c *Client) PutFile(ctx context.Context, path, filename, contentType string) (*Response, error) {
	c.init(http.MethodPut, path, nil)
	c.request.ContentType = contentType
	c.request.SetPutFile(filename)
	c.request.Expect = true
	c.request.KeepAlive = true
	return c.process(ctx, "")
}

// process runs one traced exchange.
func (c *Client) process(ctx context.Context, filename string) (*Response, error) {
	r := c.request
	c.response = nil

	ctx, span := c.telemetry.start(ctx, r.Method, r.URI)
	start := time.Now()
	resp, err := c.exchange(ctx, filename)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.telemetry.end(ctx, span, r.Method, status, err, elapsed)

	fields := logger.DurationFields(r.Method, r.URI, elapsed)
	fields[logger.FieldBodyMode] = r.BodyMode().String()
	if status > 0 {
		fields[logger.FieldStatus] = status
	}
	if err != nil {
		c.log.WithError(err).Error("request failed", fields)
	} else {
		c.log.Debug("request completed", fields)
	}
	return resp, err
}

func (c *Client) exchange(ctx context.Context, filename string) (*Response, error) {
	challenge, req, err := c.request.prepare(ctx)
	if err != nil {
		return nil, err
	}
	hc, err := c.httpClient(req, challenge)
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}

	raw, err := hc.Do(req)
	if err != nil {
		if raw == nil {
			return nil, transportError(err)
		}
		// The redirect policy stopped the chain; the last response is
		// kept with its body already closed.
		raw.Body = http.NoBody
	}

	resp := newResponse(raw, c.codecs.Decoder())
	c.response = resp
	if err := c.readBody(resp, raw, filename); err != nil {
		return resp, err
	}

	if c.cfg.ThrowOnHTTPError {
		if herr := NewHTTPError(resp); herr != nil {
			return resp, herr
		}
	}
	return resp, nil
}

func (c *Client) readBody(resp *Response, raw *http.Response, filename string) error {
	var body io.ReadCloser = raw.Body
	if raw.Request == nil || raw.Request.Method != http.MethodHead {
		decoded, err := decompress(raw.Body, resp.ContentEncoding)
		if err != nil {
			_ = raw.Body.Close()
			return errors.IO("decompress", c.request.URI, err)
		}
		body = decoded
	}

	if c.cfg.StreamResponse {
		resp.stream = body
		return nil
	}
	defer func() { _ = body.Close() }()

	if filename != "" {
		return resp.writeFile(body, filename)
	}
	if err := resp.readText(body); err != nil {
		return transportError(err)
	}
	return nil
}
