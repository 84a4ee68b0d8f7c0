package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// sessionHeaders is an http.RoundTripper that fills in the session's
// persistent headers. Headers already present on the request win.
type sessionHeaders struct {
	headers http.Header
	base    http.RoundTripper
}

func (sh sessionHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	for k, v := range sh.headers {
		if _, ok := cpy.Header[k]; ok {
			continue
		}
		cpy.Header[k] = v
	}
	return sh.base.RoundTrip(cpy)
}

// insecureTransport returns a copy of rt with certificate verification
// disabled. Only *http.Transport can be reconfigured this way.
func insecureTransport(rt http.RoundTripper) (http.RoundTripper, error) {
	t, ok := rt.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("insecure TLS needs an *http.Transport, got %T", rt)
	}

	cpy := t.Clone()
	if cpy.TLSClientConfig == nil {
		cpy.TLSClientConfig = &tls.Config{}
	}
	cpy.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec

	return cpy, nil
}

func newCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return jar, nil
}
