package catalog

import (
	"context"

	"media-catalog/internal/fsops"
)

// Filter narrows a repository query. Zero-value fields are ignored.
type Filter struct {
	ParentID    string
	TopParentID string
	Kinds       []Kind
	// Name matches the item name exactly (case-insensitive).
	Name string
	// Path matches the item path exactly.
	Path string
	IncludeVirtual bool
}

// Repository is the persistence collaborator. The engine never assumes
// anything about the backing store beyond this contract; the shipped
// implementation lives in internal/database.
type Repository interface {
	// SaveItems inserts or updates items in one batch.
	SaveItems(ctx context.Context, items []*Item) error
	// RetrieveItem fetches one item by ID. A miss returns (nil, nil).
	RetrieveItem(ctx context.Context, id string) (*Item, error)
	// DeleteItem removes an item and its people links. Deleting an
	// unknown ID is not an error.
	DeleteItem(ctx context.Context, id string) error
	// Query returns items matching the filter.
	Query(ctx context.Context, f Filter) ([]*Item, error)
	// UpdatePeople replaces the people linked to an item.
	UpdatePeople(ctx context.Context, itemID string, people []PersonRef) error
	// UpdateInheritedValues recomputes denormalized ancestor values
	// (top parent IDs) after a scan.
	UpdateInheritedValues(ctx context.Context) error
}

// FileSystem abstracts disk access for traversal so tests can run the
// full pipeline against fakes. The shipped implementation lives in
// internal/fsops.
type FileSystem interface {
	// GetFilteredEntries enumerates a directory, applying flattening
	// and shortcut resolution per the options.
	GetFilteredEntries(path string, opts fsops.FilterOptions) ([]fsops.Entry, error)
	// GetDirectoryInfo stats a single path.
	GetDirectoryInfo(path string) (fsops.Entry, error)
	// ResolveShortcut follows a shortcut file to its target path.
	ResolveShortcut(path string) (string, error)
	// NormalizePath cleans a path into the canonical form used for
	// item IDs and comparisons.
	NormalizePath(path string) string
	// Remove deletes a file or directory tree.
	Remove(path string) error
}

// RefreshMode controls how much existing data a refresh may replace.
type RefreshMode string

const (
	// RefreshDefault fills gaps without replacing existing data
	RefreshDefault RefreshMode = "default"
	// RefreshFull replaces all provider-supplied data
	RefreshFull RefreshMode = "full"
)

// RefreshPriority orders competing refresh jobs.
type RefreshPriority int

const (
	RefreshLow RefreshPriority = iota
	RefreshNormal
	RefreshHigh
)

// RefreshOptions carries the knobs for one queued refresh.
type RefreshOptions struct {
	MetadataRefresh RefreshMode
	ImageRefresh    RefreshMode
	ReplaceImages   bool
}

// RefreshQueuer accepts provider-refresh work discovered during scans.
// The shipped implementation lives in internal/refresh.
type RefreshQueuer interface {
	// QueueRefresh enqueues a refresh for an item. Re-queueing an ID
	// already in the queue keeps the higher priority.
	QueueRefresh(id string, opts RefreshOptions, priority RefreshPriority)
	// RefreshQueue snapshots the queued item IDs and their job IDs.
	RefreshQueue() map[string]string
}
