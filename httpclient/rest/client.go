package rest

import (
	"context"
	"net/http"

	"github.com/kbukum/fluenthttp/errors"
	"github.com/kbukum/fluenthttp/httpclient"
	"github.com/kbukum/fluenthttp/uri"
)

// DefaultContentType is the body and Accept media type of a Client.
const DefaultContentType = "application/json"

// Client issues typed REST calls through an httpclient.Client. Like the
// underlying client it is not safe for concurrent use.
type Client struct {
	http        *httpclient.Client
	contentType string
}

// New creates a REST client. Accept defaults to application/json and
// 4xx/5xx responses are returned as errors.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	if cfg.Accept == "" {
		cfg.Accept = DefaultContentType
	}
	cfg.ThrowOnHTTPError = true

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c, contentType: DefaultContentType}, nil
}

// NewFromClient creates a REST client from an existing HTTP client.
func NewFromClient(c *httpclient.Client) *Client {
	return &Client{http: c, contentType: DefaultContentType}
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// SetContentType changes the media type request bodies are encoded as.
func (c *Client) SetContentType(contentType string) {
	c.contentType = contentType
}

type call struct {
	query       any
	headers     map[string]string
	contentType string
}

// RequestOption configures a single REST request.
type RequestOption func(*call)

// WithQuery adds query parameters. Any value accepted by uri.Properties
// works, uri.Params keeps the given order.
func WithQuery(query any) RequestOption {
	return func(c *call) { c.query = query }
}

// WithHeaders adds headers to this request only.
func WithHeaders(headers map[string]string) RequestOption {
	return func(c *call) { c.headers = headers }
}

// WithContentType overrides the body media type for this request.
func WithContentType(contentType string) RequestOption {
	return func(c *call) { c.contentType = contentType }
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Data is the decoded response body.
	Data T
	// Raw is the underlying response.
	Raw *httpclient.Response
}

// Get performs a GET request and decodes the response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with an encoded body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with an encoded body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with an encoded body and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

// do executes a REST request and decodes the response.
func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	cl := call{contentType: c.contentType}
	for _, opt := range opts {
		opt(&cl)
	}

	req := c.http.Request()
	if len(cl.headers) > 0 {
		saved := req.ExtraHeaders()
		scoped := saved.Clone()
		for k, v := range cl.headers {
			scoped.Add(k, v)
		}
		req.SetExtraHeaders(scoped)
		defer req.SetExtraHeaders(saved)
	}

	var (
		resp *httpclient.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.http.Get(ctx, path, cl.query)
	case http.MethodDelete:
		resp, err = c.http.Delete(ctx, path, cl.query)
	case http.MethodPost:
		resp, err = c.http.Post(ctx, path+uri.ToQueryString(cl.query), body, cl.contentType)
	case http.MethodPut:
		resp, err = c.http.Put(ctx, path+uri.ToQueryString(cl.query), body, cl.contentType)
	case http.MethodPatch:
		resp, err = c.http.Patch(ctx, path+uri.ToQueryString(cl.query), body, cl.contentType)
	}
	if resp == nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: resp.StatusCode, Headers: resp.RawHeaders, Raw: resp}
	if resp.RawText == "" {
		return out, err
	}
	data, decErr := decode[T](resp, c.contentType)
	if err != nil {
		// Error bodies are decoded when they fit T.
		if decErr == nil {
			out.Data = data
		}
		return out, err
	}
	if decErr != nil {
		return nil, decErr
	}
	out.Data = data
	return out, nil
}

// decode uses the response Content-Type and falls back to fallback when
// no codec handles it.
func decode[T any](resp *httpclient.Response, fallback string) (T, error) {
	data, err := httpclient.TypedBody[T](resp)
	if errors.HasCode(err, errors.ErrCodeUnsupportedMediaType) && fallback != "" {
		return httpclient.TypedBody[T](resp, fallback)
	}
	return data, err
}
