package chapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"ytmp3/internal/catalog"
	"ytmp3/internal/textutil"
)

// initialDataPattern anchors on the global data assignment in either of the
// forms YouTube has served.
var initialDataPattern = regexp.MustCompile(`(?s)(?:window\["ytInitialData"\]|ytInitialData)\s*=\s*(.+?})(?:"\))?;`)

// PageStrategy reads the chapter list embedded in the watch page's
// initial data blob.
type PageStrategy struct {
	Catalog catalog.Catalog
}

func (PageStrategy) Name() string { return "watch_page" }

func (s PageStrategy) Find(ctx context.Context, ref catalog.VideoRef) ([]Chapter, error) {
	page, err := s.Catalog.WatchPage(ctx, ref)
	if err != nil {
		return nil, err
	}
	return ParseInitialData(page)
}

type initialData struct {
	PlayerOverlays struct {
		PlayerOverlayRenderer struct {
			DecoratedPlayerBarRenderer struct {
				DecoratedPlayerBarRenderer struct {
					PlayerBar struct {
						ChapteredPlayerBarRenderer *struct {
							Chapters []struct {
								ChapterRenderer *struct {
									Title struct {
										SimpleText string `json:"simpleText"`
									} `json:"title"`
									TimeRangeStartMillis *uint64 `json:"timeRangeStartMillis"`
								} `json:"chapterRenderer"`
							} `json:"chapters"`
						} `json:"chapteredPlayerBarRenderer"`
					} `json:"playerBar"`
				} `json:"decoratedPlayerBarRenderer"`
			} `json:"decoratedPlayerBarRenderer"`
		} `json:"playerOverlayRenderer"`
	} `json:"playerOverlays"`
}

// ParseInitialData extracts chapters from watch-page markup. The regex finds
// where the blob starts; the JSON decoder decides where it ends, so a "};"
// inside a string value does not truncate it.
func ParseInitialData(page []byte) ([]Chapter, error) {
	loc := initialDataPattern.FindSubmatchIndex(page)
	if loc == nil {
		return nil, errors.New("initial data marker not found")
	}
	var data initialData
	if err := json.NewDecoder(bytes.NewReader(page[loc[2]:])).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode initial data: %w", err)
	}
	bar := data.PlayerOverlays.PlayerOverlayRenderer.DecoratedPlayerBarRenderer.DecoratedPlayerBarRenderer.PlayerBar.ChapteredPlayerBarRenderer
	if bar == nil {
		return nil, errors.New("chaptered player bar missing")
	}
	out := make([]Chapter, 0, len(bar.Chapters))
	for i, entry := range bar.Chapters {
		r := entry.ChapterRenderer
		if r == nil || r.TimeRangeStartMillis == nil {
			return nil, fmt.Errorf("chapter %d: missing renderer fields", i)
		}
		out = append(out, Chapter{
			Title:       textutil.NormalizeTitle(r.Title.SimpleText),
			StartMillis: *r.TimeRangeStartMillis,
		})
	}
	return out, nil
}
