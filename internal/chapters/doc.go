// Package chapters discovers a video's chapter list.
//
// Discovery runs an ordered list of strategies and takes the first non-empty
// result. Strategy failures are logged and swallowed: callers only ever see
// a possibly empty slice.
package chapters
