// Package download resolves a video's best audio-only stream and copies it
// into a private scratch directory.
//
// Every download gets its own directory under the configured temp root so
// videos with identical sanitized titles never collide. A failed download
// removes its directory before returning; a successful one hands the
// directory to the caller through ScratchFile.
package download
