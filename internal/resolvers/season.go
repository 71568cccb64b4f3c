package resolvers

import (
	"media-catalog/internal/catalog"
	"media-catalog/internal/naming"
)

// SeasonResolver resolves numbered directories directly inside a series.
// Season zero keeps the configured specials name instead of the raw
// folder name.
type SeasonResolver struct{}

func (*SeasonResolver) Name() string  { return "season" }
func (*SeasonResolver) Priority() int { return 3 }

func (s *SeasonResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if !rctx.IsDir || rctx.Parent == nil || rctx.Parent.Kind != catalog.KindSeries {
		return nil, nil
	}
	num, ok := naming.ParseSeasonFolder(rctx.Name)
	if !ok {
		return nil, nil
	}

	name := rctx.Name
	if num == 0 {
		if lib := rctx.Library; lib != nil && lib.SeasonZeroName != "" {
			name = lib.SeasonZeroName
		}
	}
	return &catalog.Item{
		Kind:        catalog.KindSeason,
		Name:        name,
		Path:        rctx.Path,
		IndexNumber: num,
	}, nil
}
