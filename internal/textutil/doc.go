// Package textutil provides text helpers for turning remote titles into safe
// local file names.
//
// SanitizeFileName is total and idempotent: it only substitutes characters
// that some mainstream filesystem rejects and never changes the length or the
// position of the characters it keeps.
package textutil
