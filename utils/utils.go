// Package utils layers convenience operations over [api.API]: a guest
// session established at construction, and saving build artifacts to disk.
package utils

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/teamcity/api"
	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/client/download"
)

// Utils is an [api.API] that has already logged in as guest.
type Utils struct {
	*api.API
	guestAuthErr error
}

// New builds the API for rawURL and performs exactly one guest-auth POST
// before returning. Only a transport failure fails construction, unless
// WithRequireGuestAuth is given.
func New(ctx context.Context, rawURL string, optFns ...Option) (*Utils, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying utils option: %w", err)
		}
	}

	tc, err := api.New(rawURL, opts.clientOpts...)
	if err != nil {
		return nil, err
	}

	resp, err := tc.GuestAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("guest auth: %w", err)
	}

	u := Utils{API: tc}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.guestAuthErr = client.NewStatusError(resp)
	}

	if opts.requireGuestAuth && u.guestAuthErr != nil {
		return nil, fmt.Errorf("guest auth: %w", u.guestAuthErr)
	}

	return &u, nil
}

// GuestAuthErr reports the outcome of the guest login performed by [New]:
// nil on a 2xx status, otherwise a *client.UnexpectedStatusError.
func (u *Utils) GuestAuthErr() error {
	return u.guestAuthErr
}

// SaveArtifact streams an artifact of a build into ./<name>, relative to
// the working directory. name is used as-is and missing directories are
// not created. A status other than 200 returns a
// *client.UnexpectedStatusError before any file is created.
func (u *Utils) SaveArtifact(ctx context.Context, buildID, name string, opts ...download.Option) error {
	return u.SaveArtifactTo(ctx, buildID, name, name, opts...)
}

// SaveArtifactTo is SaveArtifact with an explicit destination path.
func (u *Utils) SaveArtifactTo(ctx context.Context, buildID, name, destPath string, opts ...download.Option) error {
	req, err := u.ArtifactRequest(ctx, buildID, name)
	if err != nil {
		return err
	}

	if err := u.Session().Download(req, http.StatusOK, destPath, opts...); err != nil {
		return fmt.Errorf("saving artifact %s of build %s: %w", name, buildID, err)
	}

	return nil
}
