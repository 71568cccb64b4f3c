package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"media-catalog/internal/logging"
)

// LocalFileSystem is the disk-backed filesystem used by the daemon. All
// operations go through the NFS retry helpers.
type LocalFileSystem struct {
	retry RetryConfig
}

// NewLocal creates a LocalFileSystem with the default retry configuration.
func NewLocal() *LocalFileSystem {
	return &LocalFileSystem{retry: DefaultRetryConfig()}
}

// NewLocalWithRetry creates a LocalFileSystem with a custom retry configuration.
func NewLocalWithRetry(retry RetryConfig) *LocalFileSystem {
	return &LocalFileSystem{retry: retry}
}

// GetFilteredEntries enumerates a directory. Shortcut files are replaced
// by their targets when opts.ResolveShortcuts is set, and directory
// entries are replaced by their children up to opts.FlattenDepth levels.
// Results are deduplicated by normalized path and sorted.
func (l *LocalFileSystem) GetFilteredEntries(path string, opts FilterOptions) ([]Entry, error) {
	out := make([]Entry, 0, 16)
	seen := make(map[string]struct{})

	if err := l.collect(path, opts, &out, seen); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func (l *LocalFileSystem) collect(path string, opts FilterOptions, out *[]Entry, seen map[string]struct{}) error {
	dirEntries, err := ReadDirWithRetry(path, l.retry)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", path, err)
	}

	for _, de := range dirEntries {
		name := de.Name()
		full := filepath.Join(path, name)

		if opts.ResolveShortcuts && IsShortcut(name) {
			target, err := l.ResolveShortcut(full)
			if err != nil {
				logging.Warn("Failed to resolve shortcut %s: %v", full, err)
				continue
			}
			info, err := StatWithRetry(target, l.retry)
			if err != nil {
				logging.Warn("Shortcut %s points at missing target %s: %v", full, target, err)
				continue
			}
			addEntry(out, seen, Entry{
				Name:    filepath.Base(target),
				Path:    NormalizePath(target),
				IsDir:   info.IsDir(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			continue
		}

		entry, ok := l.entryFor(full, de)
		if !ok {
			continue
		}

		if entry.IsDir && opts.FlattenDepth > 0 {
			sub := opts
			sub.FlattenDepth--
			if err := l.collect(full, sub, out, seen); err != nil {
				return err
			}
			continue
		}

		addEntry(out, seen, entry)
	}
	return nil
}

// entryFor builds an Entry from a directory entry, following symlinks so
// a symlink to a directory enumerates as a directory. Broken symlinks are
// skipped.
func (l *LocalFileSystem) entryFor(full string, de os.DirEntry) (Entry, bool) {
	if de.Type()&os.ModeSymlink != 0 {
		info, err := StatWithRetry(full, l.retry)
		if err != nil {
			logging.Debug("Skipping broken symlink %s: %v", full, err)
			return Entry{}, false
		}
		return Entry{
			Name:    de.Name(),
			Path:    NormalizePath(full),
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, true
	}

	info, err := de.Info()
	if err != nil {
		logging.Debug("Skipping unreadable entry %s: %v", full, err)
		return Entry{}, false
	}
	return Entry{
		Name:    de.Name(),
		Path:    NormalizePath(full),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, true
}

func addEntry(out *[]Entry, seen map[string]struct{}, e Entry) {
	if _, ok := seen[e.Path]; ok {
		return
	}
	seen[e.Path] = struct{}{}
	*out = append(*out, e)
}

// GetDirectoryInfo stats a single path.
func (l *LocalFileSystem) GetDirectoryInfo(path string) (Entry, error) {
	info, err := StatWithRetry(path, l.retry)
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Entry{
		Name:    filepath.Base(path),
		Path:    NormalizePath(path),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// ResolveShortcut reads a shortcut file and returns the target path it
// contains. Relative targets are resolved against the shortcut's
// directory.
func (l *LocalFileSystem) ResolveShortcut(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading shortcut %s: %w", path, err)
	}

	target := strings.TrimSpace(string(data))
	if target == "" {
		return "", fmt.Errorf("shortcut %s is empty", path)
	}
	// Shortcuts written on other systems may carry CRLF line endings
	if idx := strings.IndexAny(target, "\r\n"); idx >= 0 {
		target = strings.TrimSpace(target[:idx])
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return NormalizePath(target), nil
}

// NormalizePath implements catalog.FileSystem.
func (l *LocalFileSystem) NormalizePath(p string) string {
	return NormalizePath(p)
}

// Remove deletes a file or directory tree.
func (l *LocalFileSystem) Remove(path string) error {
	return RemoveWithRetry(path, l.retry)
}
