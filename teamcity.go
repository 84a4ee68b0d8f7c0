// Package teamcity exposes the builders for the TeamCity REST client.
package teamcity

import (
	"context"

	"github.com/adamwoolhether/teamcity/api"
	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/utils"
)

// NewAPI instantiates a new *api.API for the server at rawURL.
// If not specified, the default http.Client and http.Transport are used.
func NewAPI(rawURL string, opts ...client.Option) (*api.API, error) {
	return api.New(rawURL, opts...)
}

// NewUtils instantiates a new *utils.Utils, logging in as guest once
// before it returns.
func NewUtils(ctx context.Context, rawURL string, opts ...client.Option) (*utils.Utils, error) {
	return utils.New(ctx, rawURL, utils.WithClientOptions(opts...))
}
