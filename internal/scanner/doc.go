// Package scanner walks the physical library root and keeps the
// catalog in step with it.
//
// The Manager resolves filesystem entries into items through the
// resolver chain, applying ignore rules first and folder-level grouping
// (stacks, alternate versions, extras) before single-entry resolution.
// ValidateLibrary runs the full reconciliation: a shallow refresh of
// the collection folders, a parallel recursive walk that saves new
// items, updates changed ones, and removes vanished ones, and the
// post-scan tasks. The filesystem watcher is suspended while a
// validation runs, and at most one validation is in flight at a time.
package scanner
