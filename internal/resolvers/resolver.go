package resolvers

import (
	"context"
	"sort"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/options"
	"media-catalog/internal/probe"
)

// Context carries everything a resolver may consult for one entry.
type Context struct {
	// Ctx is the scan's cancellation context, passed through to
	// collaborators that take one.
	Ctx context.Context

	// Path and Name identify the entry being resolved. Path is already
	// normalized by the enumeration layer.
	Path  string
	Name  string
	IsDir bool

	// Entry is the enumerated filesystem entry backing Path.
	Entry fsops.Entry

	// Parent is the already-resolved parent item. Nil for entries at a
	// physical library root.
	Parent *catalog.Item

	// Children holds the entry's own children when it is a directory
	// the pipeline has already enumerated.
	Children []fsops.Entry

	// Hint is the content type routed to the entry's library root:
	// options.ContentMovies, ContentTVShows, ContentMusic,
	// ContentHomeVideos, or empty for mixed content.
	Hint string

	// Library is the configured library the entry falls under. Nil for
	// paths outside every configured root.
	Library *options.Library

	// CaseSensitiveIDs mirrors the catalog-wide identifier option so
	// resolvers that pre-compute IDs hash the same way the pipeline does.
	CaseSensitiveIDs bool
}

// itemID hashes a path into an item identifier the same way the
// pipeline does when it fills in missing IDs.
func (c *Context) itemID(kind catalog.Kind, path string) string {
	return catalog.ItemID(kind, fsops.NormalizePath(path), c.CaseSensitiveIDs)
}

// Resolver turns one filesystem entry into a catalog item. Resolve
// returns (nil, nil) when the entry is not the resolver's shape; an
// error means the resolver tried and failed, and the chain moves on.
type Resolver interface {
	Name() string
	Priority() int
	Resolve(rctx *Context) (*catalog.Item, error)
}

// MultiResult is the outcome of folder-level resolution.
type MultiResult struct {
	// Items are the primary items the resolver produced.
	Items []*catalog.Item
	// Extras are supplementary videos owned by entries of Items. Each
	// carries ExtraKind and OwnerID, and its owner lists it in ExtraIDs.
	Extras []*catalog.Item
	// Leftovers are the files no item claimed. The pipeline feeds them
	// back through single-entry resolution.
	Leftovers []fsops.Entry
}

// MultiResolver additionally resolves a whole folder of files at once,
// so grouping decisions (stacks, alternate versions, extras) can see
// every sibling together.
type MultiResolver interface {
	Resolver
	ResolveMultiple(rctx *Context, files []fsops.Entry) (*MultiResult, error)
}

// Chain runs resolvers in ascending priority order and returns the
// first match. A resolver that errors or panics is logged, counted,
// and skipped, so one misbehaving resolver cannot keep an entry's
// siblings from resolving.
type Chain struct {
	resolvers []Resolver
}

// NewChain builds a chain from the given resolvers sorted by priority.
// The sort is stable, so resolvers sharing a priority keep their
// registration order.
func NewChain(rs ...Resolver) *Chain {
	sorted := make([]Resolver, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Chain{resolvers: sorted}
}

// Default builds the standard chain. prober may be nil when embedded
// media tags are not available; only episode numbering falls back to it.
func Default(prober probe.Prober) *Chain {
	return NewChain(
		&MovieResolver{},
		&SeriesResolver{},
		&SeasonResolver{},
		&EpisodeResolver{Prober: prober},
		&AudioResolver{},
		&VideoResolver{},
		&PlaylistResolver{},
		&FolderResolver{},
	)
}

// Resolve runs the single-entry chain. Nil means no resolver claimed
// the entry and it should not be cataloged.
func (c *Chain) Resolve(rctx *Context) *catalog.Item {
	start := time.Now()
	defer func() {
		metrics.ResolveDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	}()

	for _, r := range c.resolvers {
		item := c.resolveOne(r, rctx)
		if item != nil {
			metrics.ResolvedItemsTotal.WithLabelValues(string(item.Kind)).Inc()
			return item
		}
	}
	return nil
}

func (c *Chain) resolveOne(r Resolver, rctx *Context) (item *catalog.Item) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.ResolverFailuresTotal.WithLabelValues(r.Name()).Inc()
			logging.Error("Resolver %s panicked on %s: %v", r.Name(), rctx.Path, rec)
			item = nil
		}
	}()

	item, err := r.Resolve(rctx)
	if err != nil {
		metrics.ResolverFailuresTotal.WithLabelValues(r.Name()).Inc()
		logging.Warn("Resolver %s failed on %s: %v", r.Name(), rctx.Path, err)
		return nil
	}
	return item
}

// ResolveMultiple offers a folder's files to every multi-capable
// resolver in priority order. The first non-empty result wins. Nil
// means no resolver claimed anything and every file should go through
// Resolve individually.
func (c *Chain) ResolveMultiple(rctx *Context, files []fsops.Entry) *MultiResult {
	start := time.Now()
	defer func() {
		metrics.ResolveDuration.WithLabelValues("multi").Observe(time.Since(start).Seconds())
	}()

	for _, r := range c.resolvers {
		mr, ok := r.(MultiResolver)
		if !ok {
			continue
		}
		result := c.resolveMany(mr, rctx, files)
		if result != nil && len(result.Items) > 0 {
			for _, item := range result.Items {
				metrics.ResolvedItemsTotal.WithLabelValues(string(item.Kind)).Inc()
			}
			return result
		}
	}
	return nil
}

func (c *Chain) resolveMany(r MultiResolver, rctx *Context, files []fsops.Entry) (result *MultiResult) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.ResolverFailuresTotal.WithLabelValues(r.Name()).Inc()
			logging.Error("Resolver %s panicked on folder %s: %v", r.Name(), rctx.Path, rec)
			result = nil
		}
	}()

	result, err := r.ResolveMultiple(rctx, files)
	if err != nil {
		metrics.ResolverFailuresTotal.WithLabelValues(r.Name()).Inc()
		logging.Warn("Resolver %s failed on folder %s: %v", r.Name(), rctx.Path, err)
		return nil
	}
	return result
}
