package resolvers

import (
	"media-catalog/internal/catalog"
)

// FolderResolver is the terminal resolver: any directory nothing above
// claimed becomes a plain folder under its own name.
type FolderResolver struct{}

func (*FolderResolver) Name() string  { return "folder" }
func (*FolderResolver) Priority() int { return 100 }

func (f *FolderResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if !rctx.IsDir {
		return nil, nil
	}
	return &catalog.Item{
		Kind: catalog.KindFolder,
		Name: rctx.Name,
		Path: rctx.Path,
	}, nil
}
