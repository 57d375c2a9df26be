// Package pipeline coordinates one ytmp3 run: classify the input, download
// what it names, and hand the scratch files to the transcoder.
//
// Runs are sequential. Every scratch directory created during a run is
// removed before Run returns, whatever the outcome. A run holds an exclusive
// lock on its output directory so two invocations never write into the same
// tree at once.
package pipeline
