package resolvers

import (
	"media-catalog/internal/catalog"
	"media-catalog/internal/naming"
)

// VideoResolver is the fallback for video files that are neither movies
// nor episodes: home video and mixed libraries, strays at collection
// roots, and files the typed resolvers declined.
type VideoResolver struct{}

func (*VideoResolver) Name() string  { return "video" }
func (*VideoResolver) Priority() int { return 6 }

func (v *VideoResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if rctx.IsDir || !IsVideoFile(rctx.Name) {
		return nil, nil
	}
	name, year := naming.ParseFileName(rctx.Name)
	return &catalog.Item{
		Kind: catalog.KindVideo,
		Name: name,
		Year: year,
		Path: rctx.Path,
	}, nil
}
