package chapters

import (
	"bufio"
	"context"
	"regexp"
	"strconv"
	"strings"

	"ytmp3/internal/catalog"
	"ytmp3/internal/textutil"
)

var timestampPattern = regexp.MustCompile(`(?:(\d{1,2}):)?(\d{1,2}):(\d{2})`)

// DescriptionStrategy reads "[H:]MM:SS Title" lines from the video
// description.
type DescriptionStrategy struct {
	Catalog catalog.Catalog
}

func (DescriptionStrategy) Name() string { return "description" }

func (s DescriptionStrategy) Find(ctx context.Context, ref catalog.VideoRef) ([]Chapter, error) {
	video, err := s.Catalog.Video(ctx, ref)
	if err != nil {
		return nil, err
	}
	return ParseDescription(video.Description), nil
}

// ParseDescription returns one chapter per line carrying a timestamp, in line
// order. The title is the line with the timestamp removed.
func ParseDescription(description string) []Chapter {
	var out []Chapter
	scanner := bufio.NewScanner(strings.NewReader(description))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m := timestampPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		hours := 0
		if m[2] >= 0 {
			hours, _ = strconv.Atoi(line[m[2]:m[3]])
		}
		minutes, _ := strconv.Atoi(line[m[4]:m[5]])
		seconds, _ := strconv.Atoi(line[m[6]:m[7]])
		title := strings.TrimSpace(line[:m[0]] + line[m[1]:])
		out = append(out, Chapter{
			Title:       textutil.NormalizeTitle(title),
			StartMillis: uint64(((hours*60+minutes)*60 + seconds) * 1000),
		})
	}
	return out
}
