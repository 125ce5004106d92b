package httpclient

import (
	"bytes"
	"crypto"
	"crypto/tls"
	"fmt"
	"net/http"
	"reflect"
	"slices"
)

// roundTripper returns the client transport. The default transport is a
// clone of http.DefaultTransport with compression handled by the response
// pipeline; it is rebuilt whenever the client certificates differ from the
// ones it was built with.
func (c *Client) roundTripper() (http.RoundTripper, error) {
	if c.customTransport != nil {
		return c.customTransport, nil
	}
	certs := c.request.ClientCertificates
	if c.transport != nil && sameCertificates(c.transportCerts, certs) {
		return c.transport, nil
	}

	tlsCfg, err := c.cfg.TLS.Build(certs...)
	if err != nil {
		return nil, err
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = tlsCfg
	t.DisableCompression = true

	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	c.transport = t
	c.transportCerts = slices.Clone(certs)
	return t, nil
}

func sameCertificates(a, b []tls.Certificate) bool {
	return slices.EqualFunc(a, b, func(x, y tls.Certificate) bool {
		return slices.EqualFunc(x.Certificate, y.Certificate, bytes.Equal) &&
			samePrivateKey(x.PrivateKey, y.PrivateKey)
	})
}

func samePrivateKey(a, b crypto.PrivateKey) bool {
	if k, ok := a.(interface{ Equal(crypto.PrivateKey) bool }); ok {
		return k.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// httpClient assembles the per-call client around the transport.
func (c *Client) httpClient(req *http.Request, challenge bool) (*http.Client, error) {
	rt, err := c.roundTripper()
	if err != nil {
		return nil, err
	}
	if challenge {
		creds := c.request.credentials
		rt = &challengeTransport{next: rt, username: creds.Username, password: creds.Password}
	}
	return &http.Client{
		Transport:     rt,
		Timeout:       c.request.Timeout,
		Jar:           c.cookieJar(req.URL),
		CheckRedirect: c.checkRedirect,
	}, nil
}

func (c *Client) checkRedirect(_ *http.Request, via []*http.Request) error {
	r := c.request
	if !r.AllowAutoRedirect {
		return http.ErrUseLastResponse
	}
	limit := c.cfg.MaxRedirects
	if r.MaxForwards > 0 {
		limit = r.MaxForwards
	}
	if len(via) > limit {
		return fmt.Errorf("httpclient: stopped after %d redirects", limit)
	}
	return nil
}

// Close releases idle connections of the default transport.
func (c *Client) Close() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}
