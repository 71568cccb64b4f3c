package resolvers

import (
	"path/filepath"
	"strings"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/naming"
	"media-catalog/internal/options"
)

// MovieResolver resolves video files under a movies library. At the
// folder level it groups siblings into logical movies, joining stacked
// parts, folding alternate versions, and attaching extras.
type MovieResolver struct{}

func (*MovieResolver) Name() string  { return "movie" }
func (*MovieResolver) Priority() int { return 1 }

// Resolve handles individual video files, including leftovers handed
// back after folder-level resolution.
func (m *MovieResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if rctx.IsDir || rctx.Hint != options.ContentMovies || !IsVideoFile(rctx.Name) {
		return nil, nil
	}
	name, year := naming.ParseFileName(rctx.Name)
	return &catalog.Item{
		Kind: catalog.KindMovie,
		Name: name,
		Year: year,
		Path: rctx.Path,
	}, nil
}

// ResolveMultiple groups a folder's video files into movies. Non-video
// files and, when the folder holds more than one movie, extra-suffixed
// files are returned as leftovers. Returns nil when the folder holds no
// primary video at all, leaving every file to single-entry resolution.
func (m *MovieResolver) ResolveMultiple(rctx *Context, files []fsops.Entry) (*MultiResult, error) {
	if rctx.Hint != options.ContentMovies {
		return nil, nil
	}

	result := &MultiResult{}
	byPath := make(map[string]fsops.Entry, len(files))
	var extras []naming.VideoFile
	var primaries []string

	for _, f := range files {
		if f.IsDir || !IsVideoFile(f.Name) {
			result.Leftovers = append(result.Leftovers, f)
			continue
		}
		byPath[f.Path] = f
		vf := naming.ParseVideoFile(f.Path, false)
		if vf.ExtraKind != "" {
			extras = append(extras, vf)
			continue
		}
		primaries = append(primaries, f.Path)
	}

	if len(primaries) == 0 {
		return nil, nil
	}

	for _, v := range naming.BuildVideos(rctx.Name, primaries) {
		result.Items = append(result.Items, m.movieFromVideo(rctx, v))
	}

	// Extras attach only when the folder resolves to exactly one movie.
	// A flat folder holding several movies has no unambiguous owner, so
	// its extra-suffixed files resolve on their own.
	if len(result.Items) == 1 {
		owner := result.Items[0]
		for _, vf := range extras {
			extra := m.extraItem(rctx, vf, owner.ID)
			owner.ExtraIDs = append(owner.ExtraIDs, extra.ID)
			result.Extras = append(result.Extras, extra)
		}
	} else {
		for _, vf := range extras {
			result.Leftovers = append(result.Leftovers, byPath[vf.Path])
		}
	}

	return result, nil
}

func (m *MovieResolver) movieFromVideo(rctx *Context, v *naming.Video) *catalog.Item {
	name, year := v.Name, v.Year
	if name == "" {
		name, year = naming.ParseFileName(filepath.Base(v.PrimaryPath()))
	}

	item := &catalog.Item{
		Kind: catalog.KindMovie,
		Name: name,
		Year: year,
		Path: v.PrimaryPath(),
	}
	item.ID = rctx.itemID(item.Kind, item.Path)

	if len(v.Files) > 1 {
		item.PartPaths = append(item.PartPaths, v.Files...)
	}
	for _, alt := range v.AlternateVersions {
		item.AlternatePaths = append(item.AlternatePaths, alt.PrimaryPath())
	}
	return item
}

// extraItem builds the item for an extra-suffixed sibling. The name
// keeps the raw file stem so the classifying suffix stays visible.
func (m *MovieResolver) extraItem(rctx *Context, vf naming.VideoFile, ownerID string) *catalog.Item {
	base := filepath.Base(vf.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	extra := &catalog.Item{
		Kind:      catalog.KindVideo,
		Name:      stem,
		Year:      vf.Year,
		Path:      vf.Path,
		ExtraKind: vf.ExtraKind,
		OwnerID:   ownerID,
	}
	extra.ID = rctx.itemID(extra.Kind, extra.Path)
	return extra
}
