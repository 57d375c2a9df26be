// Package progress renders per-operation progress for downloads and
// transcodes.
//
// A Reporter is acquired for one operation and released with Close. On a
// terminal it pins its output to the cursor position captured at acquisition
// and redraws the percentage in place; elsewhere it emits sampled log lines.
// Either way Close renders the completion exactly once.
package progress
