package catalog

import (
	"context"
	"io"
	"strings"
	"time"
)

// Video is the metadata the pipeline needs about one video.
type Video struct {
	ID          string
	Title       string
	Description string
	Author      string
	ChannelID   string
	Duration    time.Duration
}

// StreamDescriptor describes one downloadable stream from a manifest. Itag is
// the locator OpenStream uses to fetch its bytes.
type StreamDescriptor struct {
	Itag          int
	MimeType      string
	Container     string
	Codec         string
	Bitrate       int
	ContentLength int64
	AudioChannels int
	AudioOnly     bool
}

// Manifest lists the streams available for a video.
type Manifest struct {
	VideoID string
	Streams []StreamDescriptor
}

// Playlist is a snapshot of a playlist's entries taken at resolution time.
type Playlist struct {
	ID     string
	Title  string
	Author string
	Videos []VideoRef
}

// Catalog is the remote video catalog.
type Catalog interface {
	// Video resolves metadata for one video.
	Video(ctx context.Context, ref VideoRef) (Video, error)
	// Manifest returns the stream manifest, or nil when the catalog has none.
	Manifest(ctx context.Context, ref VideoRef) (*Manifest, error)
	// OpenStream opens the bytes of one stream. The size is -1 when unknown.
	OpenStream(ctx context.Context, ref VideoRef, stream StreamDescriptor) (io.ReadCloser, int64, error)
	// Playlist snapshots a playlist's ordered entries.
	Playlist(ctx context.Context, ref PlaylistRef) (Playlist, error)
	// WatchPage fetches the raw markup of the video's watch page.
	WatchPage(ctx context.Context, ref VideoRef) ([]byte, error)
}

// parseMimeType splits `audio/webm; codecs="opus"` into container "webm"
// and codec "opus". MP4 audio maps to the m4a extension.
func parseMimeType(mime string) (container, codec string, audioOnly bool) {
	mediaType, params, _ := strings.Cut(mime, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	kind, subtype, _ := strings.Cut(mediaType, "/")
	audioOnly = kind == "audio"
	container = subtype
	if audioOnly && container == "mp4" {
		container = "m4a"
	}
	if _, value, ok := strings.Cut(params, "codecs="); ok {
		value = strings.Trim(strings.TrimSpace(value), `"`)
		codec, _, _ = strings.Cut(value, ",")
		codec = strings.TrimSpace(codec)
	}
	return container, codec, audioOnly
}
