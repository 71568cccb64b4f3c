// Package catalog defines the item model shared by every other package:
// typed library items, deterministic item identifiers, the collaborator
// interfaces the engine consumes (repository, filesystem, refresh queue),
// and the in-memory read-through item cache.
//
// Items are plain data. Parent/child relationships are expressed through
// IDs, never pointers, so an item can be serialized, cached, and re-read
// from the repository without carrying object graphs around.
package catalog
