package resolvers

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/options"
)

// AudioResolver resolves audio files under music and mixed libraries.
// Embedded id3 tags supply the display name, year, and artist when the
// file carries them; otherwise the file stem is used as-is.
type AudioResolver struct{}

func (*AudioResolver) Name() string  { return "audio" }
func (*AudioResolver) Priority() int { return 5 }

func (a *AudioResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if rctx.IsDir || !IsAudioFile(rctx.Name) {
		return nil, nil
	}
	if rctx.Hint != options.ContentMusic && rctx.Hint != options.ContentMixed {
		return nil, nil
	}

	item := &catalog.Item{
		Kind: catalog.KindAudio,
		Name: strings.TrimSuffix(rctx.Name, filepath.Ext(rctx.Name)),
		Path: rctx.Path,
	}

	tag, err := id3v2.Open(rctx.Path, id3v2.Options{Parse: true})
	if err != nil {
		logging.Debug("Reading tags from %s: %v", rctx.Path, err)
		return item, nil
	}
	defer tag.Close()

	if title := strings.TrimSpace(tag.Title()); title != "" {
		item.Name = title
	}
	if artist := strings.TrimSpace(tag.Artist()); artist != "" {
		item.People = append(item.People, catalog.PersonRef{Name: artist, Type: "artist"})
	}
	if year, err := strconv.Atoi(strings.TrimSpace(tag.Year())); err == nil && year > 0 {
		item.Year = year
	}
	return item, nil
}
