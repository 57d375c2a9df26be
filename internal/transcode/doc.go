// Package transcode drives ffmpeg to convert, concatenate, and split audio.
//
// Every operation builds a Job and hands it to a single submit primitive
// that runs ffmpeg with machine-readable progress on stdout, feeds a
// progress reporter, and checks the declared output afterwards. A missing
// or empty output is reported as services.ErrConversionIncomplete together
// with the output path; callers decide whether that is fatal.
//
// Engine configuration (binaries, codec, bitrate bounds) is fixed at
// construction and never changes between jobs.
package transcode
