package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/textproto"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/teamcity/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	jar               http.CookieJar
	timeout           *time.Duration
	userAgent         string
	headers           http.Header
	throttle          *throttle.Config
	noFollowRedirects bool
	insecure          bool
	logger            *slog.Logger
	events            EventLogger
	tracer            trace.Tracer
}

// WithClient replaces the default [http.Client] used by the [Client].
// hc is copied; its Jar, Timeout and Transport are left untouched.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithCookieJar replaces the session cookie jar. By default every [Client]
// gets its own jar backed by the public suffix list.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *options) error {
		if jar == nil {
			return errors.New("cookie jar must not be nil")
		}
		c.jar = jar
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// Without it requests may block for as long as the server keeps the
// connection open.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithHeader adds a persistent session header. It is sent on every request
// that doesn't set the same header itself. Repeating the option with the
// same key replaces the previous value.
func WithHeader(key, value string) Option {
	return func(c *options) error {
		if key == "" {
			return errors.New("header key must not be empty")
		}
		if c.headers == nil {
			c.headers = make(http.Header)
		}
		c.headers[textproto.CanonicalMIMEHeaderKey(key)] = []string{value}
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("throttle: %w", err)
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithInsecureSkipVerify disables verification of the server's TLS
// certificate chain and host name. Only use it against servers with
// self-signed certificates you already trust.
func WithInsecureSkipVerify() Option {
	return func(c *options) error {
		c.insecure = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithEventLogger replaces the default request/response event sink,
// which writes to the client's [slog.Logger].
func WithEventLogger(el EventLogger) Option {
	return func(c *options) error {
		if el == nil {
			return errors.New("event logger must not be nil")
		}
		c.events = el
		return nil
	}
}

// WithTracer sets the tracer used to create a span per request.
// The global otel tracer provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	body        any
	raw         []byte
	contentType *string
	cookies     []*http.Cookie
	headers     map[string][]string
	basicAuth   *basicAuth
}

type basicAuth struct {
	username string
	password string
}

// WithPayload sets the JSON-encoded request body.
func WithPayload(body any) RequestOption {
	return func(opts *requestOpts) error {
		if opts.raw != nil {
			return errors.New("cannot combine payload with raw body")
		}
		opts.body = body

		return nil
	}
}

// WithBody sends data as the request body, unmodified.
func WithBody(data []byte) RequestOption {
	return func(opts *requestOpts) error {
		if opts.body != nil {
			return errors.New("cannot combine raw body with payload")
		}
		opts.raw = data

		return nil
	}
}

// WithContentType overrides the default "application/json" Content-Type header.
func WithContentType(contentType string) RequestOption {
	return func(opts *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}

		opts.contentType = &contentType

		return nil
	}
}

// WithHeaders adds custom headers to the outgoing request.
// They take precedence over the session headers set with [WithHeader].
func WithHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		opts.headers = headers

		return nil
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(opts *requestOpts) error {
		opts.cookies = cookies

		return nil
	}
}

// WithBasicAuth sets HTTP basic authentication credentials on the request.
// Empty credentials are sent as given.
func WithBasicAuth(username, password string) RequestOption {
	return func(opts *requestOpts) error {
		opts.basicAuth = &basicAuth{username: username, password: password}

		return nil
	}
}
