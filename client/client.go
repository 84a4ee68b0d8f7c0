package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/teamcity/client/download"
	"github.com/adamwoolhether/teamcity/client/throttle"
)

const tracerName = "github.com/adamwoolhether/teamcity/client"

// Client is an HTTP session: it owns an *http.Client with a cookie jar
// and persistent headers, and reports every exchange to an [EventLogger].
type Client struct {
	c      *http.Client
	logger *slog.Logger
	events EventLogger
	tracer trace.Tracer
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		hc := *opts.client
		client.c = &hc
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	client.events = SlogEvents{Logger: client.logger}
	if opts.events != nil {
		client.events = opts.events
	}

	client.tracer = otel.GetTracerProvider().Tracer(tracerName)
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	switch {
	case opts.jar != nil:
		client.c.Jar = opts.jar
	case client.c.Jar == nil:
		jar, err := newCookieJar()
		if err != nil {
			return nil, err
		}
		client.c.Jar = jar
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.insecure {
		rt, err := insecureTransport(transport)
		if err != nil {
			return nil, fmt.Errorf("configuring tls: %w", err)
		}
		transport = rt
	}
	if len(opts.headers) > 0 {
		transport = sessionHeaders{headers: opts.headers, base: transport}
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Send fires the request and buffers the whole response body so it can be
// logged. The returned response carries an in-memory copy of the body.
// A non-2xx status is not an error.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	ctx, span := c.startSpan(req)
	defer span.End()

	ev := c.logRequest(ctx, req)

	start := time.Now()
	resp, err := c.c.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	data, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		c.logger.Error("failed to close response body", "error", closeErr)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	c.events.LogResponse(ctx, ResponseEvent{
		ID:         ev.ID,
		Method:     ev.Method,
		URL:        ev.URL,
		StatusCode: resp.StatusCode,
		Body:       data,
		Elapsed:    time.Since(start),
	})

	return resp, nil
}

// Stream fires the request and returns as soon as the response headers
// arrive. The caller must consume and close the body.
func (c *Client) Stream(req *http.Request) (*http.Response, error) {
	ctx, span := c.startSpan(req)
	defer span.End()

	ev := c.logRequest(ctx, req)

	start := time.Now()
	resp, err := c.c.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	c.events.LogResponse(ctx, ResponseEvent{
		ID:         ev.ID,
		Method:     ev.Method,
		URL:        ev.URL,
		StatusCode: resp.StatusCode,
		Streamed:   true,
		Elapsed:    time.Since(start),
	})

	return resp, nil
}

// Download executes a request that's intended to stream the response body to destPath.
// Options are validated, and WithSkipExisting is honored, before the request
// is sent. Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or cleared on failure. Nothing touches the filesystem
// unless the response status equals expCode.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...download.Option) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	skip, err := download.Skip(destPath, opts...)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if skip {
		c.logger.Info("skipping existing file", "path", destPath, "url", req.URL.String())
		return nil
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, dlFunc)
}

// exec streams the request and runs fn on the response after validating the expected status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	resp, err := c.Stream(req)
	if err != nil {
		return err
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != expCode {
		return NewStatusError(resp)
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

func (c *Client) startSpan(req *http.Request) (context.Context, trace.Span) {
	return c.tracer.Start(req.Context(), "teamcity."+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
		),
	)
}

func (c *Client) logRequest(ctx context.Context, req *http.Request) RequestEvent {
	ev := RequestEvent{
		ID:     uuid.NewString(),
		Method: req.Method,
		URL:    req.URL.String(),
	}

	if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			ev.Body, _ = io.ReadAll(rc)
			_ = rc.Close()
		}
	}

	c.events.LogRequest(ctx, ev)

	return ev
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, rawURL string, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, rawURL, method, opts...)
}

// Request instantiates an *http.Request with the provided information.
// Content-Type defaults to `application/json` when a body is set and
// no other type is given via WithContentType.
func Request(ctx context.Context, rawURL string, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	var payload io.Reader
	switch {
	case settings.body != nil:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		payload = &buf
	case settings.raw != nil:
		payload = bytes.NewReader(settings.raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	switch {
	case settings.contentType != nil:
		req.Header.Set("Content-Type", *settings.contentType)
	case payload != nil:
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	if settings.basicAuth != nil {
		req.SetBasicAuth(settings.basicAuth.username, settings.basicAuth.password)
	}

	return req, nil
}

// URL creates a url.URL from its parts. path is used as-is.
func URL(scheme, host, path string) *url.URL {
	return &url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}
}
