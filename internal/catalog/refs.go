package catalog

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"ytmp3/internal/services"
)

var (
	videoIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{13,42}$`)
)

// VideoRef identifies one video by its canonical 11-character id.
type VideoRef struct {
	ID string
}

// URL returns the watch page address for the video.
func (r VideoRef) URL() string {
	return "https://www.youtube.com/watch?v=" + r.ID
}

func (r VideoRef) String() string { return r.ID }

// PlaylistRef identifies one playlist by its canonical id.
type PlaylistRef struct {
	ID string
}

// URL returns the playlist page address.
func (r PlaylistRef) URL() string {
	return "https://www.youtube.com/playlist?list=" + r.ID
}

func (r PlaylistRef) String() string { return r.ID }

// ParseVideoRef accepts a bare video id or a URL naming one video
// (watch?v=, youtu.be/, /embed/, /shorts/, /live/, /v/). A URL that names
// both a video and a playlist is a video reference.
func ParseVideoRef(input string) (VideoRef, bool) {
	input = strings.TrimSpace(input)
	if videoIDPattern.MatchString(input) {
		return VideoRef{ID: input}, true
	}
	u, ok := parseYouTubeURL(input)
	if !ok {
		return VideoRef{}, false
	}
	if id := videoIDFromURL(u); id != "" {
		return VideoRef{ID: id}, true
	}
	return VideoRef{}, false
}

// ParsePlaylistRef accepts a bare playlist id or a URL carrying list= and no
// video component. Bare playlist ids are never 11 characters long, so no input
// parses as both kinds.
func ParsePlaylistRef(input string) (PlaylistRef, bool) {
	input = strings.TrimSpace(input)
	if playlistIDPattern.MatchString(input) {
		return PlaylistRef{ID: input}, true
	}
	u, ok := parseYouTubeURL(input)
	if !ok || videoIDFromURL(u) != "" {
		return PlaylistRef{}, false
	}
	id := u.Query().Get("list")
	if playlistIDPattern.MatchString(id) {
		return PlaylistRef{ID: id}, true
	}
	return PlaylistRef{}, false
}

// TargetKind classifies a command-line input.
type TargetKind int

const (
	TargetVideo TargetKind = iota + 1
	TargetPlaylist
	TargetFolder
)

func (k TargetKind) String() string {
	switch k {
	case TargetVideo:
		return "video"
	case TargetPlaylist:
		return "playlist"
	case TargetFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Target is a classified command-line input.
type Target struct {
	Kind     TargetKind
	Video    VideoRef
	Playlist PlaylistRef
	Folder   string
}

// ParseTarget classifies input as an existing local directory, a video, or a
// playlist, in that order of precedence. A directory whose name happens to
// look like an id is still a directory.
func ParseTarget(input string) (Target, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed != "" {
		if info, err := os.Stat(trimmed); err == nil && info.IsDir() {
			return Target{Kind: TargetFolder, Folder: trimmed}, nil
		}
	}
	if ref, ok := ParseVideoRef(trimmed); ok {
		return Target{Kind: TargetVideo, Video: ref}, nil
	}
	if ref, ok := ParsePlaylistRef(trimmed); ok {
		return Target{Kind: TargetPlaylist, Playlist: ref}, nil
	}
	return Target{}, services.Wrap(services.ErrValidation, "input", "parse",
		fmt.Sprintf("%q is not a folder, video, or playlist", input), nil)
}

func parseYouTubeURL(input string) (*url.URL, bool) {
	if input == "" {
		return nil, false
	}
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be", "youtube-nocookie.com":
		return u, true
	default:
		return nil, false
	}
}

func videoIDFromURL(u *url.URL) string {
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	var candidate string
	switch {
	case host == "youtu.be":
		candidate = segments[0]
	case len(segments) == 1 && segments[0] == "watch":
		candidate = u.Query().Get("v")
	case len(segments) >= 2:
		switch segments[0] {
		case "embed", "shorts", "live", "v":
			candidate = segments[1]
		}
	}
	if videoIDPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}
