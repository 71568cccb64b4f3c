package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/images"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/naming"
	"media-catalog/internal/resolvers"
)

// IgnoreSentinel marks a directory that must stay out of the catalog.
// Its presence is checked against the raw enumeration, before ignore
// rules run.
const IgnoreSentinel = ".ignore"

// rootFlattenDepth collapses the grouping and virtual-folder levels a
// physical root keeps between itself and the library content, so the
// root item's children are the content folders themselves.
const rootFlattenDepth = 2

// enumLevel selects enumeration behavior by position in the tree.
type enumLevel int

const (
	// levelPlain is any directory below a collection folder.
	levelPlain enumLevel = iota
	// levelCollection is a direct child of the physical root. Shortcut
	// files are resolved so a collection can link in content stored
	// outside the library tree.
	levelCollection
	// levelRoot is the physical root itself.
	levelRoot
)

// ResolvePath resolves one filesystem entry into a catalog item, or nil
// when the entry is ignored, sentinel-marked, or no resolver claims it.
// A nil parent means the entry is the physical root. Directory children
// of the root resolve as collection folders without consulting the
// chain.
func (m *Manager) ResolvePath(ctx context.Context, entry fsops.Entry, parent *catalog.Item) (*catalog.Item, error) {
	return m.resolveEntry(ctx, entry, parent, m.opts.ContentTypeFor(entry.Path))
}

func (m *Manager) resolveEntry(ctx context.Context, entry fsops.Entry, parent *catalog.Item, hint string) (*catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ShouldIgnore(entry, parent) {
		return nil, nil
	}

	var children []fsops.Entry
	if entry.IsDir {
		var err error
		children, err = m.enumerate(entry.Path, levelFor(parent))
		if errors.Is(err, errRootUnavailable) {
			// The root still resolves, just with nothing under it.
			children = nil
		} else if err != nil {
			return nil, err
		}
		if hasIgnoreSentinel(children) {
			logging.Debug("Skipping %s: %s sentinel present", entry.Path, IgnoreSentinel)
			return nil, nil
		}
	}

	var item *catalog.Item
	if entry.IsDir && parent != nil && parent.ParentID == "" {
		item = m.collectionFolder(entry, hint)
	} else {
		rctx := m.resolveContext(ctx, entry, parent, hint)
		rctx.Children = children
		item = m.chain.Resolve(rctx)
	}
	if item == nil {
		return nil, nil
	}

	m.setInitialValues(item, entry, parent)
	return item, nil
}

// ResolveChildren resolves a folder's enumerated children. Files go
// through folder-level multi resolution first so stacking, version
// grouping, and extras can see every sibling; leftovers and directories
// resolve one at a time. Dedicated extras directories are swept into
// extra items on the folder's owner instead of becoming folders.
func (m *Manager) ResolveChildren(ctx context.Context, parent *catalog.Item, entries []fsops.Entry) []*catalog.Item {
	var files, dirs []fsops.Entry
	for _, e := range entries {
		if m.ShouldIgnore(e, parent) {
			continue
		}
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	byPath := make(map[string]fsops.Entry, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	hint := m.opts.ContentTypeFor(parent.Path)
	items := make([]*catalog.Item, 0, len(entries))
	leftovers := files

	var multi *resolvers.MultiResult
	if len(files) > 0 && parent.ParentID != "" {
		folderEntry := fsops.Entry{Name: parent.Name, Path: parent.Path, IsDir: true}
		rctx := m.resolveContext(ctx, folderEntry, parent, hint)
		multi = m.chain.ResolveMultiple(rctx, files)
	}
	if multi != nil {
		for _, item := range multi.Items {
			m.setInitialValues(item, byPath[item.Path], parent)
			items = append(items, item)
		}
		for _, extra := range multi.Extras {
			m.setInitialValues(extra, byPath[extra.Path], parent)
			items = append(items, extra)
		}
		leftovers = multi.Leftovers
	}

	for _, f := range leftovers {
		item, err := m.resolveEntry(ctx, f, parent, m.opts.ContentTypeFor(f.Path))
		if err != nil {
			logging.Warn("Resolving %s failed: %v", f.Path, err)
			metrics.ScanErrors.Inc()
			continue
		}
		if item != nil {
			items = append(items, item)
		}
	}

	owner := extrasOwner(parent, multi)
	for _, d := range dirs {
		if kind, ok := naming.FolderExtraKind(d.Name); ok && owner != nil {
			items = append(items, m.sweepExtrasDir(ctx, d, kind, owner, parent)...)
			continue
		}
		item, err := m.resolveEntry(ctx, d, parent, m.opts.ContentTypeFor(d.Path))
		if err != nil {
			logging.Warn("Resolving %s failed: %v", d.Path, err)
			metrics.ScanErrors.Inc()
			continue
		}
		if item != nil {
			items = append(items, item)
		}
	}

	m.attachArtwork(parent, items, entries)
	return items
}

// extrasOwner picks the item a dedicated extras directory belongs to:
// the folder's single movie when folder-level resolution produced
// exactly one, otherwise the folder itself when it is a series or
// season. Anything else leaves extras directories unclaimed.
func extrasOwner(parent *catalog.Item, multi *resolvers.MultiResult) *catalog.Item {
	if multi != nil && len(multi.Items) == 1 {
		return multi.Items[0]
	}
	if parent.Kind == catalog.KindSeries || parent.Kind == catalog.KindSeason {
		return parent
	}
	return nil
}

// sweepExtrasDir turns every video file inside a dedicated extras
// directory into an extra item on owner. The directory itself is not
// cataloged.
func (m *Manager) sweepExtrasDir(ctx context.Context, dir fsops.Entry, kind catalog.ExtraKind, owner, parent *catalog.Item) []*catalog.Item {
	entries, err := m.enumerate(dir.Path, levelPlain)
	if err != nil {
		logging.Warn("Enumerating extras directory %s: %v", dir.Path, err)
		return nil
	}

	var extras []*catalog.Item
	for _, e := range entries {
		if e.IsDir || !resolvers.IsVideoFile(e.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return extras
		}
		extra := &catalog.Item{
			Kind:      catalog.KindVideo,
			Name:      strings.TrimSuffix(e.Name, filepath.Ext(e.Name)),
			Path:      e.Path,
			ExtraKind: kind,
			OwnerID:   owner.ID,
		}
		m.setInitialValues(extra, e, parent)
		owner.ExtraIDs = append(owner.ExtraIDs, extra.ID)
		extras = append(extras, extra)
	}
	if len(extras) > 0 {
		logging.Debug("Swept %d extras from %s for %s", len(extras), dir.Path, owner.Name)
	}
	return extras
}

// errRootUnavailable marks a failed enumeration of the physical root.
// Resolution degrades to an empty child list; the validation run keeps
// the stored catalog instead of treating everything as vanished.
var errRootUnavailable = errors.New("library root unavailable")

// enumerate lists a directory with the filter options its tree position
// calls for. Enumeration failure below the physical root propagates; at
// the root it is reported as errRootUnavailable.
func (m *Manager) enumerate(path string, level enumLevel) ([]fsops.Entry, error) {
	var opts fsops.FilterOptions
	switch level {
	case levelRoot:
		opts.FlattenDepth = rootFlattenDepth
		opts.ResolveShortcuts = true
	case levelCollection:
		opts.ResolveShortcuts = true
	}

	entries, err := m.fs.GetFilteredEntries(path, opts)
	if err != nil {
		if level == levelRoot {
			logging.Error("Enumerating library root %s failed: %v", path, err)
			metrics.ScanErrors.Inc()
			return nil, errRootUnavailable
		}
		return nil, fmt.Errorf("enumerating %s: %w", path, err)
	}

	if level == levelRoot {
		entries = dedupRootChildren(entries)
	}
	return entries, nil
}

// levelFor derives the enumeration level for an entry from its parent:
// no parent means the entry is the physical root, a parent with no
// parent of its own means the entry is a collection folder.
func levelFor(parent *catalog.Item) enumLevel {
	switch {
	case parent == nil:
		return levelRoot
	case parent.ParentID == "":
		return levelCollection
	default:
		return levelPlain
	}
}

func hasIgnoreSentinel(entries []fsops.Entry) bool {
	for _, e := range entries {
		if !e.IsDir && e.Name == IgnoreSentinel {
			return true
		}
	}
	return false
}

// dedupRootChildren removes any entry whose path sits strictly under
// another entry's directory path. The ancestor's walk visits the whole
// subtree, so keeping the nested path would catalog it twice.
func dedupRootChildren(entries []fsops.Entry) []fsops.Entry {
	out := make([]fsops.Entry, 0, len(entries))
	for _, e := range entries {
		nested := false
		for _, other := range entries {
			if other.IsDir && strictlyUnder(e.Path, other.Path) {
				nested = true
				logging.Info("Dropping root child %s: already covered by %s", e.Path, other.Path)
				break
			}
		}
		if !nested {
			out = append(out, e)
		}
	}
	return out
}

// DedupPaths removes any path that is a strict sub-path of another,
// keeping input order. Used to normalize configured root lists before
// watching or scanning them.
func DedupPaths(paths []string) []string {
	cleaned := make([]string, len(paths))
	for i, p := range paths {
		cleaned[i] = fsops.NormalizePath(p)
	}

	out := make([]string, 0, len(cleaned))
	for i, p := range cleaned {
		nested := false
		for j, other := range cleaned {
			if i == j {
				continue
			}
			if strictlyUnder(p, other) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, p)
		}
	}
	return out
}

func strictlyUnder(path, root string) bool {
	if path == root {
		return false
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

func (m *Manager) resolveContext(ctx context.Context, entry fsops.Entry, parent *catalog.Item, hint string) *resolvers.Context {
	return &resolvers.Context{
		Ctx:              ctx,
		Path:             entry.Path,
		Name:             entry.Name,
		IsDir:            entry.IsDir,
		Entry:            entry,
		Parent:           parent,
		Hint:             hint,
		Library:          m.opts.LibraryFor(entry.Path),
		CaseSensitiveIDs: m.opts.CaseSensitiveIDs,
	}
}

// collectionFolder builds the item for a direct child of the physical
// root. The content type routed to its path decides how everything
// under it resolves.
func (m *Manager) collectionFolder(entry fsops.Entry, hint string) *catalog.Item {
	return &catalog.Item{
		Kind:           catalog.KindCollection,
		Name:           entry.Name,
		Path:           entry.Path,
		CollectionType: hint,
	}
}

// setInitialValues fills the bookkeeping fields resolution leaves
// blank: identifier, parent linkage, source, and filesystem dates.
// Resolver-assigned IDs are kept so pre-wired extras stay attached.
func (m *Manager) setInitialValues(item *catalog.Item, entry fsops.Entry, parent *catalog.Item) {
	if item.ID == "" {
		item.ID = catalog.ItemID(item.Kind, m.fs.NormalizePath(item.Path), m.opts.CaseSensitiveIDs)
	}
	item.Source = catalog.SourceLibrary

	switch {
	case parent == nil:
		item.TopParentID = item.ID
	case parent.ParentID == "":
		item.ParentID = parent.ID
		item.TopParentID = item.ID
	default:
		item.ParentID = parent.ID
		item.TopParentID = parent.TopParentID
	}

	if !entry.IsDir && entry.Path == item.Path {
		item.Size = entry.Size
	}
	if !entry.ModTime.IsZero() {
		item.DateModified = entry.ModTime
	}
	if item.DateCreated.IsZero() {
		item.DateCreated = entry.ModTime
	}
}

// attachArtwork files folder-level artwork onto the folder's natural
// owner: the single video item when the folder holds exactly one,
// otherwise the folder itself.
func (m *Manager) attachArtwork(folder *catalog.Item, items []*catalog.Item, entries []fsops.Entry) {
	var videos []*catalog.Item
	for _, it := range items {
		if it.Kind.IsVideo() && it.ExtraKind == "" {
			videos = append(videos, it)
		}
	}

	target := folder
	videoBase := ""
	if len(videos) == 1 {
		target = videos[0]
		videoBase = strings.TrimSuffix(filepath.Base(videos[0].Path), filepath.Ext(videos[0].Path))
	}

	infos := images.FindArtwork(entries, videoBase)
	if len(infos) == 0 {
		return
	}

	byPath := make(map[string]fsops.Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	target.Images = target.Images[:0]
	for _, info := range infos {
		img := catalog.ImageInfo{
			Type: catalog.ImageType(info.Type),
			Path: info.Path,
		}
		if e, ok := byPath[info.Path]; ok {
			img.DateModified = e.ModTime
		}
		target.Images = append(target.Images, img)
	}
}
