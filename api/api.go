package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/internal/validate"
)

// API talks to a single TeamCity server over one session.
type API struct {
	baseURL string
	session *client.Client
}

// New builds an API for the server at rawURL. Only the host (and port) of
// rawURL is kept: requests always go to http://<host>.
//
// Every request carries `Accept: application/json` unless the caller
// overrides it, either per request or with client.WithHeader.
func New(rawURL string, opts ...client.Option) (*API, error) {
	if err := validate.Var("url", rawURL, "required,url"); err != nil {
		return nil, fmt.Errorf("validating url: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if u.Host == "" {
		return nil, errors.New("url must contain a host")
	}

	defaults := []client.Option{client.WithHeader("Accept", "application/json")}

	session, err := client.Build(append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("building session: %w", err)
	}

	api := API{
		baseURL: client.URL("http", u.Host, "").String(),
		session: session,
	}

	return &api, nil
}

// BaseURL returns the normalized http://<host> prefix of every request.
func (a *API) BaseURL() string {
	return a.baseURL
}

// Session returns the underlying HTTP session.
func (a *API) Session() *client.Client {
	return a.session
}

// PrepareURL joins the base URL and relativePath with a single slash.
// relativePath is neither escaped nor validated.
func (a *API) PrepareURL(relativePath string) string {
	return a.baseURL + "/" + relativePath
}

// SendRequest issues method against relativePath and returns the response
// whatever its status. The response body has been read for logging and
// replaced with an in-memory copy, so it is still readable in full.
func (a *API) SendRequest(ctx context.Context, relativePath, method string, opts ...client.RequestOption) (*http.Response, error) {
	req, err := a.session.Request(ctx, a.PrepareURL(relativePath), method, opts...)
	if err != nil {
		return nil, fmt.Errorf("preparing %s request: %w", method, err)
	}

	resp, err := a.session.Send(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s %s: %w", method, relativePath, err)
	}

	return resp, nil
}
