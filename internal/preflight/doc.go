// Package preflight verifies the environment before a run: directory access,
// free space for downloads, reachability of the catalog, and the presence of
// the transcoding binaries.
//
// Checks return Result values rather than errors so the CLI can render them
// side by side; EnsureFreeSpace is the exception because the downloader needs
// a hard stop.
package preflight
