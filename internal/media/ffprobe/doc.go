// Package ffprobe runs ffprobe against a downloaded or local audio file and
// decodes its JSON report. The transcoder uses Result.AudioStream to pick an
// output bitrate that does not exceed the source, and Result.Duration to turn
// ffmpeg's out_time progress into a percentage.
package ffprobe
