package resolvers

import (
	"media-catalog/internal/catalog"
	"media-catalog/internal/naming"
	"media-catalog/internal/options"
)

// SeriesResolver resolves directories under a television library into
// series. Season folders, dedicated extras folders, and directories
// already inside a series tree are left to lower-priority resolvers.
type SeriesResolver struct{}

func (*SeriesResolver) Name() string  { return "series" }
func (*SeriesResolver) Priority() int { return 2 }

func (s *SeriesResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if !rctx.IsDir || rctx.Hint != options.ContentTVShows {
		return nil, nil
	}
	if p := rctx.Parent; p != nil && (p.Kind == catalog.KindSeries || p.Kind == catalog.KindSeason) {
		return nil, nil
	}
	if _, ok := naming.ParseSeasonFolder(rctx.Name); ok {
		return nil, nil
	}
	if _, ok := naming.FolderExtraKind(rctx.Name); ok {
		return nil, nil
	}

	name, year := naming.ParseName(rctx.Name)
	return &catalog.Item{
		Kind: catalog.KindSeries,
		Name: name,
		Year: year,
		Path: rctx.Path,
	}, nil
}
