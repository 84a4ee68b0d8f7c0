// Package download streams HTTP response bodies to disk in bounded
// chunks, with optional checksum validation and progress reporting.
//
// # Single Download
//
// [Handle] writes the body to a temporary file alongside the
// destination path, then renames it on success:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithChunkSize(download.DefaultChunkSize),
//	)
//
// Each write to the file is at most one chunk; [Copy] exposes the same
// loop for arbitrary writers.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/teamcity/utils] package, which saves build
// artifacts through Handle.
package download
