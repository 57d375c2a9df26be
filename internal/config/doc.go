// Package config loads, normalizes, and validates ytmp3 configuration files.
//
// Configuration is TOML. Load resolves the file location (explicit flag,
// ~/.config/ytmp3/config.toml, then ./ytmp3.toml), applies defaults for every
// key the file omits, expands paths, and validates the result. A missing file
// is not an error; the defaults describe a working setup as long as ffmpeg and
// ffprobe are reachable on PATH.
package config
