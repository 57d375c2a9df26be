package catalog

import (
	"context"

	"github.com/ytget/ytdlp/v2"

	"ytmp3/internal/services"
)

// PlaylistLister enumerates playlist entries through a secondary source.
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, ref PlaylistRef) (Playlist, error)
}

// ytdlpLister lists entries through github.com/ytget/ytdlp/v2. It only
// knows entries, so the playlist title falls back to the id.
type ytdlpLister struct {
	items func(ctx context.Context, playlistID string) ([]VideoRef, error)
}

// NewYtdlpLister returns the default fallback lister.
func NewYtdlpLister() PlaylistLister {
	return ytdlpLister{items: func(ctx context.Context, playlistID string) ([]VideoRef, error) {
		d := ytdlp.New()
		items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
		if err != nil {
			return nil, err
		}
		refs := make([]VideoRef, 0, len(items))
		for _, it := range items {
			if it.VideoID == "" {
				continue
			}
			refs = append(refs, VideoRef{ID: it.VideoID})
		}
		return refs, nil
	}}
}

func (l ytdlpLister) ListPlaylist(ctx context.Context, ref PlaylistRef) (Playlist, error) {
	refs, err := l.items(ctx, ref.ID)
	if err != nil {
		return Playlist{}, services.Wrap(services.ErrTransient, "playlist", "fallback listing", "", err)
	}
	return Playlist{ID: ref.ID, Title: ref.ID, Videos: refs}, nil
}
