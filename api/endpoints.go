package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/teamcity/client"
)

// Paths relative to the base URL. Ids and names are substituted verbatim.
const (
	httpAuthPath   = "httpAuth/"
	guestAuthPath  = "guestAuth/"
	versionPath    = "app/rest/version"
	usersPath      = "app/rest/users"
	projectsPath   = "app/rest/projects"
	projectPath    = "app/rest/projects/id:%s"
	buildTypesPath = "app/rest/buildTypes"
	buildTypePath  = "app/rest/buildTypes/id:%s"
	buildsPath     = "app/rest/builds"
	buildPath      = "app/rest/builds/%s"
	tagsPath       = "app/rest/builds/id:%s/tags"
	artifactPath   = "app/rest/builds/id:%s/artifacts/content/%s"
)

// Version fetches the REST API version as plain text.
func (a *API) Version(ctx context.Context) (*http.Response, error) {
	accept := client.WithHeaders(map[string][]string{"Accept": {"text/plain"}})

	return a.SendRequest(ctx, versionPath, http.MethodGet, accept)
}

// Users lists all users.
func (a *API) Users(ctx context.Context) (*http.Response, error) {
	return a.SendRequest(ctx, usersPath, http.MethodGet)
}

// Projects lists all projects.
func (a *API) Projects(ctx context.Context) (*http.Response, error) {
	return a.SendRequest(ctx, projectsPath, http.MethodGet)
}

// Project fetches one project.
func (a *API) Project(ctx context.Context, projectID string) (*http.Response, error) {
	return a.SendRequest(ctx, fmt.Sprintf(projectPath, projectID), http.MethodGet)
}

// BuildTypes lists all build configurations.
func (a *API) BuildTypes(ctx context.Context) (*http.Response, error) {
	return a.SendRequest(ctx, buildTypesPath, http.MethodGet)
}

// BuildType fetches one build configuration.
func (a *API) BuildType(ctx context.Context, buildTypeID string) (*http.Response, error) {
	return a.SendRequest(ctx, fmt.Sprintf(buildTypePath, buildTypeID), http.MethodGet)
}

// Builds lists builds.
func (a *API) Builds(ctx context.Context) (*http.Response, error) {
	return a.SendRequest(ctx, buildsPath, http.MethodGet)
}

// Build fetches one build. buildID is a full locator segment, e.g. "id:42"
// or "number:1.0.3", since no prefix is added.
func (a *API) Build(ctx context.Context, buildID string) (*http.Response, error) {
	return a.SendRequest(ctx, fmt.Sprintf(buildPath, buildID), http.MethodGet)
}

// Tags lists the tags of a build.
func (a *API) Tags(ctx context.Context, buildID string) (*http.Response, error) {
	return a.SendRequest(ctx, fmt.Sprintf(tagsPath, buildID), http.MethodGet)
}

// Artifact fetches the content of a build artifact, buffered and logged
// like every other read.
func (a *API) Artifact(ctx context.Context, buildID, name string) (*http.Response, error) {
	return a.SendRequest(ctx, fmt.Sprintf(artifactPath, buildID, name), http.MethodGet)
}

// GetArtifact fetches the content of a build artifact as a stream. The
// body is neither buffered nor logged; the caller must close it.
func (a *API) GetArtifact(ctx context.Context, buildID, name string) (*http.Response, error) {
	req, err := a.ArtifactRequest(ctx, buildID, name)
	if err != nil {
		return nil, err
	}

	resp, err := a.session.Stream(req)
	if err != nil {
		return nil, fmt.Errorf("streaming artifact %s: %w", name, err)
	}

	return resp, nil
}

// ArtifactRequest builds the GET request for an artifact's content
// without sending it.
func (a *API) ArtifactRequest(ctx context.Context, buildID, name string) (*http.Request, error) {
	req, err := a.session.Request(ctx, a.PrepareURL(fmt.Sprintf(artifactPath, buildID, name)), http.MethodGet)
	if err != nil {
		return nil, fmt.Errorf("preparing artifact request: %w", err)
	}

	return req, nil
}
