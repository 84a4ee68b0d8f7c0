package api

import (
	"context"
	"net/http"

	"github.com/adamwoolhether/teamcity/client"
)

// HTTPAuth logs in with basic credentials. On success the server sets a
// session cookie which the session's jar sends on later requests.
func (a *API) HTTPAuth(ctx context.Context, username, password string) (*http.Response, error) {
	return a.SendRequest(ctx, httpAuthPath, http.MethodPost, client.WithBasicAuth(username, password))
}

// GuestAuth logs in as the guest user.
func (a *API) GuestAuth(ctx context.Context) (*http.Response, error) {
	return a.SendRequest(ctx, guestAuthPath, http.MethodPost)
}
