package httpclient

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

func newJar() http.CookieJar {
	// cookiejar.New never fails.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// cookieJar returns the jar for the next exchange: the client jar when
// cookies persist, a fresh one otherwise. The request cookies are stored
// for u first.
func (c *Client) cookieJar(u *url.URL) http.CookieJar {
	var jar http.CookieJar
	if c.request.PersistCookies {
		if c.jar == nil {
			c.jar = newJar()
		}
		jar = c.jar
	} else {
		jar = newJar()
	}
	if len(c.request.Cookies) > 0 {
		jar.SetCookies(u, c.request.Cookies)
	}
	return jar
}

// Cookies returns the persisted cookies sent to rawURL.
func (c *Client) Cookies(rawURL string) []*http.Cookie {
	if c.jar == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return c.jar.Cookies(u)
}

// ClearCookies drops the persisted cookies.
func (c *Client) ClearCookies() {
	c.jar = nil
}
