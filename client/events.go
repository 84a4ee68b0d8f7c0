package client

import (
	"context"
	"log/slog"
	"time"
)

// EventLogger receives one event per outgoing request and one per
// response. Implementations must not retain the Body slices.
type EventLogger interface {
	LogRequest(ctx context.Context, ev RequestEvent)
	LogResponse(ctx context.Context, ev ResponseEvent)
}

// RequestEvent describes a request about to be sent.
type RequestEvent struct {
	ID     string
	Method string
	URL    string
	Body   []byte
}

// ResponseEvent describes the response to the request with the same ID.
// Body is nil when the response is streamed to the caller.
type ResponseEvent struct {
	ID         string
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Streamed   bool
	Elapsed    time.Duration
}

// SlogEvents writes events to a [slog.Logger] at info level.
type SlogEvents struct {
	Logger *slog.Logger
}

func (s SlogEvents) LogRequest(ctx context.Context, ev RequestEvent) {
	s.Logger.InfoContext(ctx, "request",
		"id", ev.ID,
		"method", ev.Method,
		"url", ev.URL,
		"data", string(ev.Body),
	)
}

func (s SlogEvents) LogResponse(ctx context.Context, ev ResponseEvent) {
	attrs := []any{
		"id", ev.ID,
		"method", ev.Method,
		"url", ev.URL,
		"statusCode", ev.StatusCode,
		"since", ev.Elapsed.String(),
	}
	if ev.Streamed {
		attrs = append(attrs, "streamed", true)
	} else {
		attrs = append(attrs, "text", string(ev.Body))
	}

	s.Logger.InfoContext(ctx, "response", attrs...)
}
