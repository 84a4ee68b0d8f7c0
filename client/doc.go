// Package client provides the HTTP session used to talk to the CI server,
// built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithHeader("Accept", "application/json"),
//		client.WithTimeout(10 * time.Second),
//	)
//
// Every Client owns a cookie jar, so cookies set by one response (for
// example a session established by an auth endpoint) are sent on the
// following requests.
//
// # Sending Requests
//
// Construct a [Request] and send it with [Client.Send]. The response is
// returned as-is whatever its status code; the body has already been read
// into memory so it could be logged:
//
//	req, err := client.Request(ctx, "http://ci.local/app/rest/builds", http.MethodGet)
//	resp, err := c.Send(req)
//
// [Client.Stream] skips the buffering and hands the live body to the
// caller, and [Client.Download] streams it to a file once the status
// matches.
//
// # Logging and Tracing
//
// Each exchange produces a [RequestEvent] and a [ResponseEvent] delivered
// to an [EventLogger]; the default writes to the client's [slog.Logger]
// at info level. Each exchange also runs in a client span from the
// configured otel tracer.
//
// # Transport Security
//
// Certificates are verified unless [WithInsecureSkipVerify] is given.
package client
