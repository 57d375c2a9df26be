package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kkdai/youtube/v2"

	"ytmp3/internal/logging"
	"ytmp3/internal/services"
)

const maxWatchPageBytes = 8 << 20

// YouTube implements Catalog against the public YouTube endpoints.
type YouTube struct {
	client     *youtube.Client
	httpClient *http.Client
	fallback   PlaylistLister
	logger     *slog.Logger

	mu     sync.Mutex
	videos map[string]*youtube.Video
}

// Option configures a YouTube catalog.
type Option func(*YouTube)

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(y *YouTube) {
		if client != nil {
			y.httpClient = client
		}
	}
}

// WithPlaylistFallback installs a secondary lister used when the primary
// playlist lookup fails.
func WithPlaylistFallback(lister PlaylistLister) Option {
	return func(y *YouTube) {
		y.fallback = lister
	}
}

// WithLogger sets the logger for catalog diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(y *YouTube) {
		if logger != nil {
			y.logger = logger
		}
	}
}

// NewYouTube constructs the production catalog.
func NewYouTube(opts ...Option) *YouTube {
	y := &YouTube{
		httpClient: http.DefaultClient,
		logger:     logging.NewNop(),
		videos:     make(map[string]*youtube.Video),
	}
	for _, opt := range opts {
		opt(y)
	}
	y.client = &youtube.Client{HTTPClient: y.httpClient}
	y.logger = logging.NewComponentLogger(y.logger, "catalog")
	return y
}

// Video resolves metadata for ref.
func (y *YouTube) Video(ctx context.Context, ref VideoRef) (Video, error) {
	v, err := y.lookup(ctx, ref)
	if err != nil {
		return Video{}, err
	}
	return Video{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Author:      v.Author,
		ChannelID:   v.ChannelID,
		Duration:    v.Duration,
	}, nil
}

// Manifest lists the streams of ref. A video without formats has no manifest.
func (y *YouTube) Manifest(ctx context.Context, ref VideoRef) (*Manifest, error) {
	v, err := y.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(v.Formats) == 0 {
		return nil, nil
	}
	manifest := &Manifest{VideoID: v.ID, Streams: make([]StreamDescriptor, 0, len(v.Formats))}
	for i := range v.Formats {
		manifest.Streams = append(manifest.Streams, describeFormat(&v.Formats[i]))
	}
	return manifest, nil
}

// OpenStream opens the bytes of the stream identified by its itag.
func (y *YouTube) OpenStream(ctx context.Context, ref VideoRef, stream StreamDescriptor) (io.ReadCloser, int64, error) {
	v, err := y.lookup(ctx, ref)
	if err != nil {
		return nil, 0, err
	}
	formats := v.Formats.Itag(stream.Itag)
	if len(formats) == 0 {
		return nil, 0, services.Wrap(services.ErrManifestUnavailable, "download", "open stream",
			fmt.Sprintf("itag %d not in manifest", stream.Itag), nil)
	}
	reader, size, err := y.client.GetStreamContext(ctx, v, &formats[0])
	if err != nil {
		return nil, 0, classify("download", "open stream", err)
	}
	if size <= 0 {
		size = -1
	}
	return reader, size, nil
}

// Playlist snapshots the entries of ref, consulting the fallback lister when
// the primary lookup fails.
func (y *YouTube) Playlist(ctx context.Context, ref PlaylistRef) (Playlist, error) {
	p, err := y.client.GetPlaylistContext(ctx, ref.URL())
	if err == nil {
		out := Playlist{ID: p.ID, Title: p.Title, Author: p.Author}
		if out.ID == "" {
			out.ID = ref.ID
		}
		for _, entry := range p.Videos {
			if entry == nil || entry.ID == "" {
				continue
			}
			out.Videos = append(out.Videos, VideoRef{ID: entry.ID})
		}
		return out, nil
	}
	primary := classify("playlist", "resolve playlist", err)
	if y.fallback == nil || ctx.Err() != nil {
		return Playlist{}, primary
	}
	logging.WarnWithContext(logging.WithContext(ctx, y.logger), "primary playlist lookup failed; trying fallback", "playlist_fallback",
		logging.String(logging.FieldErrorHint, "playlist contents come from the fallback lister"),
		logging.String(logging.FieldImpact, "playlist title may be unavailable"),
		logging.String("playlist_id", ref.ID),
		logging.Error(err),
	)
	out, ferr := y.fallback.ListPlaylist(ctx, ref)
	if ferr != nil {
		return Playlist{}, errors.Join(primary, ferr)
	}
	return out, nil
}

// WatchPage fetches the raw watch-page markup for ref.
func (y *YouTube) WatchPage(ctx context.Context, ref VideoRef) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "chapters", "watch page", "build request", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "chapters", "watch page", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "chapters", "watch page",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "chapters", "watch page", "read body", err)
	}
	return body, nil
}

func (y *YouTube) lookup(ctx context.Context, ref VideoRef) (*youtube.Video, error) {
	y.mu.Lock()
	cached, ok := y.videos[ref.ID]
	y.mu.Unlock()
	if ok {
		return cached, nil
	}
	v, err := y.client.GetVideoContext(ctx, ref.URL())
	if err != nil {
		return nil, classify("metadata", "resolve video", err)
	}
	y.mu.Lock()
	y.videos[ref.ID] = v
	y.mu.Unlock()
	return v, nil
}

func describeFormat(f *youtube.Format) StreamDescriptor {
	container, codec, audioOnly := parseMimeType(f.MimeType)
	return StreamDescriptor{
		Itag:          f.ItagNo,
		MimeType:      f.MimeType,
		Container:     container,
		Codec:         codec,
		Bitrate:       bitrateForFormat(f),
		ContentLength: f.ContentLength,
		AudioChannels: f.AudioChannels,
		AudioOnly:     audioOnly,
	}
}

func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return 0
}

// classify maps library errors onto the service sentinels.
func classify(stage, operation string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return services.Wrap(services.ErrManifestUnavailable, stage, operation, "video is restricted", err)
	case errors.Is(err, youtube.ErrInvalidPlaylist),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return services.Wrap(services.ErrValidation, stage, operation, "invalid identifier", err)
	}
	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return services.Wrap(services.ErrManifestUnavailable, stage, operation, "video is not playable", err)
	}
	return services.Wrap(services.ErrTransient, stage, operation, "catalog request failed", err)
}
