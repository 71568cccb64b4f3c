package fsops

import (
	"path/filepath"
	"strings"
	"time"
)

// Entry is one enumerated filesystem entry. Symlinks are resolved during
// enumeration, so IsDir reflects the link target for symlinked directories.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// FilterOptions controls enumeration behavior.
type FilterOptions struct {
	// FlattenDepth replaces directory entries with their own children,
	// recursively up to this many levels. Library roots are enumerated
	// with a depth of 2 so grouping folders on the physical disk do not
	// appear in the catalog.
	FlattenDepth int
	// ResolveShortcuts replaces shortcut files with their targets.
	ResolveShortcuts bool
}

// ShortcutExt is the extension of shortcut files pointing at content
// stored outside the library tree.
const ShortcutExt = ".mblink"

// IsShortcut reports whether a file name is a shortcut file.
func IsShortcut(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ShortcutExt)
}

// NormalizePath cleans a path into the canonical form used for item IDs
// and path comparison: redundant separators and trailing slashes removed.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}
