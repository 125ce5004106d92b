package httpclient

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthBearer uses Bearer token authentication.
	AuthBearer
)

// Credentials are the request credentials.
type Credentials struct {
	// Type is the authentication method.
	Type AuthType
	// Username is the basic auth username (AuthBasic).
	Username string
	// Password is the basic auth password (AuthBasic).
	Password string
	// Token is the bearer token (AuthBearer).
	Token string
}

// SetBasicAuthentication sets basic credentials. Unless ForceBasicAuth is
// set they are only sent after the server answers with a Basic challenge.
func (r *Request) SetBasicAuthentication(username, password string) {
	r.credentials = &Credentials{Type: AuthBasic, Username: username, Password: password}
}

// SetBearerToken sends "Authorization: Bearer <token>" with every request.
func (r *Request) SetBearerToken(token string) {
	r.credentials = &Credentials{Type: AuthBearer, Token: token}
}

// ClearAuthentication removes any credentials.
func (r *Request) ClearAuthentication() {
	r.credentials = nil
}

// Credentials returns the configured credentials, or nil.
func (r *Request) Credentials() *Credentials {
	return r.credentials
}

func basicAuthorization(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// applyAuth sets the Authorization header when credentials are sent
// up front. It reports whether basic credentials are left for the
// challenge transport.
func (r *Request) applyAuth(req *http.Request) bool {
	c := r.credentials
	if c == nil {
		return false
	}
	switch c.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.Token)
	case AuthBasic:
		if r.ForceBasicAuth {
			req.Header.Set("Authorization", basicAuthorization(c.Username, c.Password))
			return false
		}
		return true
	}
	return false
}

// challengeTransport answers a Basic challenge by replaying the request
// once with credentials.
type challengeTransport struct {
	next     http.RoundTripper
	username string
	password string
}

func (t *challengeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if req.Header.Get("Authorization") != "" || !basicChallenge(resp.Header) {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return resp, nil
		}
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", basicAuthorization(t.username, t.password))

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return t.next.RoundTrip(retry)
}

func basicChallenge(h http.Header) bool {
	for _, v := range h.Values("WWW-Authenticate") {
		if len(v) >= 5 && strings.EqualFold(v[:5], "basic") {
			return true
		}
	}
	return false
}
