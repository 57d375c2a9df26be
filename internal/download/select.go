package download

import (
	"ytmp3/internal/catalog"
	"ytmp3/internal/services"
)

// SelectBest returns the highest-bitrate audio-only stream. Ties resolve to
// the first stream encountered.
func SelectBest(streams []catalog.StreamDescriptor) (catalog.StreamDescriptor, error) {
	best := -1
	for i, s := range streams {
		if !s.AudioOnly {
			continue
		}
		if best < 0 || s.Bitrate > streams[best].Bitrate {
			best = i
		}
	}
	if best < 0 {
		return catalog.StreamDescriptor{}, services.Wrap(services.ErrNoAudioStream, "download", "select stream",
			"manifest lists no audio-only stream", nil)
	}
	return streams[best], nil
}
