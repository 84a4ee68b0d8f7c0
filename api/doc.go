// Package api is a thin client for the TeamCity REST interface.
//
// Every method issues exactly one HTTP request and returns the raw
// [net/http.Response]. A non-2xx status is not an error: callers inspect
// StatusCode themselves. Only transport failures are returned as errors.
//
//	tc, err := api.New("https://ci.example.com")
//	resp, err := tc.Projects(ctx)
//
// The base URL is always http://<host>, whatever scheme, path or query the
// input carried.
package api
