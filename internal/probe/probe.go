package probe

import (
	"context"
	"strconv"
	"strings"
)

// StreamType tags one stream inside a media container.
type StreamType string

const (
	StreamVideo    StreamType = "video"
	StreamAudio    StreamType = "audio"
	StreamSubtitle StreamType = "subtitle"
)

// Stream is one elementary stream of a probed file.
type Stream struct {
	Index    int        `json:"index"`
	Type     StreamType `json:"type"`
	Codec    string     `json:"codec"`
	Language string     `json:"language,omitempty"`
	Width    int        `json:"width,omitempty"`
	Height   int        `json:"height,omitempty"`
	Channels int        `json:"channels,omitempty"`
}

// MediaInfo is the container-level result of probing a media file.
type MediaInfo struct {
	Container  string            `json:"container"`
	DurationMs int64             `json:"durationMs"`
	Bitrate    int               `json:"bitrate,omitempty"`
	Streams    []Stream          `json:"streams,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Prober extracts container metadata from a media file. The catalog
// ships no prober of its own; hosts plug one in and resolvers treat a
// nil prober as "no embedded metadata".
type Prober interface {
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

// Tag names carrying episode ordering in embedded metadata.
const (
	TagSeasonNumber = "season_number"
	TagEpisodeSort  = "episode_sort"
)

// EpisodeNumbers reads season and episode ordering from embedded tags.
// Returns ok only when an episode number is present; a missing season
// comes back as -1.
func EpisodeNumbers(info *MediaInfo) (season, episode int, ok bool) {
	if info == nil || len(info.Tags) == 0 {
		return 0, 0, false
	}

	episode, ok = intTag(info.Tags, TagEpisodeSort)
	if !ok {
		return 0, 0, false
	}
	season, sok := intTag(info.Tags, TagSeasonNumber)
	if !sok {
		season = -1
	}
	return season, episode, true
}

func intTag(tags map[string]string, name string) (int, bool) {
	for k, v := range tags {
		if !strings.EqualFold(k, name) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
