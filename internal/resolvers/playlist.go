package resolvers

import (
	"path/filepath"
	"strings"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/options"
	"media-catalog/internal/playlist"
)

// PlaylistResolver resolves playlist files (m3u, wpl) in music
// libraries. The playlist becomes a leaf item named after its embedded
// title; its entries reference audio items by path and are not
// materialized as children.
type PlaylistResolver struct{}

func (*PlaylistResolver) Name() string  { return "playlist" }
func (*PlaylistResolver) Priority() int { return 7 }

func (p *PlaylistResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if rctx.IsDir || !playlist.IsPlaylistFile(rctx.Name) {
		return nil, nil
	}
	if rctx.Hint != options.ContentMusic {
		return nil, nil
	}

	item := &catalog.Item{
		Kind: catalog.KindPlaylist,
		Name: strings.TrimSuffix(rctx.Name, filepath.Ext(rctx.Name)),
		Path: rctx.Path,
	}

	pl, err := playlist.Parse(rctx.Path)
	if err != nil {
		logging.Debug("Reading playlist %s: %v", rctx.Path, err)
		return item, nil
	}
	if pl.Name != "" {
		item.Name = pl.Name
	}
	logging.Debug("Playlist %s references %d files", item.Name, len(pl.Entries))
	return item, nil
}
