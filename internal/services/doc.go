// Package services holds the plumbing every pipeline stage shares: error
// markers with Wrap, and context keys for the run id, video id and stage
// that the logging package turns into structured fields.
package services
