package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"media-catalog/internal/logging"
)

// Content types routed to libraries. An empty content type means mixed
// content; the resolver chain then decides per entry.
const (
	ContentMovies     = "movies"
	ContentTVShows    = "tvshows"
	ContentMusic      = "music"
	ContentHomeVideos = "homevideos"
	ContentMixed      = ""
)

// Options is the parsed library options file.
type Options struct {
	// CaseSensitiveIDs disables the case folding normally applied to
	// paths before hashing them into item IDs. Only for case-sensitive
	// library filesystems.
	CaseSensitiveIDs bool `toml:"case_sensitive_ids"`

	// IgnoreGlobs adds library-wide ignore patterns on top of the
	// built-in rules. Matched against base names.
	IgnoreGlobs []string `toml:"ignore_globs"`

	Libraries []Library `toml:"library"`
}

// Library describes one library and the roots it claims.
type Library struct {
	Name  string   `toml:"name"`
	Paths []string `toml:"paths"`

	// ContentType routes resolution for everything under Paths. One of
	// "movies", "tvshows", "music", "homevideos", or empty for mixed.
	ContentType string `toml:"content_type"`

	// AbsoluteEpisodeNumbers turns on bare-number episode parsing
	// ("103.mkv" as absolute episode 103).
	AbsoluteEpisodeNumbers bool `toml:"absolute_episode_numbers"`

	// SeasonZeroName is the display name for season 0. Defaults to
	// "Specials".
	SeasonZeroName string `toml:"season_zero_name"`

	// DisableRealtimeMonitor keeps the filesystem watcher away from
	// this library's roots.
	DisableRealtimeMonitor bool `toml:"disable_realtime_monitor"`
}

var validContentTypes = map[string]bool{
	ContentMovies:     true,
	ContentTVShows:    true,
	ContentMusic:      true,
	ContentHomeVideos: true,
	ContentMixed:      true,
}

// Default returns the options used when no options file exists.
func Default() *Options {
	return &Options{}
}

// Load reads an options file. A missing file is not an error; defaults
// apply. Library paths are cleaned and per-library defaults filled in.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("No options file at %s, using defaults", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("reading options file %s: %w", path, err)
	}

	opts := &Options{}
	if err := toml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing options file %s: %w", path, err)
	}

	opts.normalize()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("options file %s: %w", path, err)
	}

	logging.Info("Loaded options from %s (%d libraries)", path, len(opts.Libraries))
	return opts, nil
}

func (o *Options) normalize() {
	for i := range o.Libraries {
		lib := &o.Libraries[i]
		lib.ContentType = strings.ToLower(strings.TrimSpace(lib.ContentType))
		if lib.SeasonZeroName == "" {
			lib.SeasonZeroName = "Specials"
		}
		for j, p := range lib.Paths {
			lib.Paths[j] = filepath.Clean(p)
		}
	}
}

func (o *Options) validate() error {
	for _, lib := range o.Libraries {
		if !validContentTypes[lib.ContentType] {
			return fmt.Errorf("library %q: unknown content type %q", lib.Name, lib.ContentType)
		}
		if len(lib.Paths) == 0 {
			return fmt.Errorf("library %q: no paths", lib.Name)
		}
	}
	for _, g := range o.IgnoreGlobs {
		if _, err := filepath.Match(g, "probe"); err != nil {
			return fmt.Errorf("bad ignore glob %q: %w", g, err)
		}
	}
	return nil
}

// LibraryFor returns the library whose path is the longest prefix of the
// given path, or nil when no library claims it.
func (o *Options) LibraryFor(path string) *Library {
	path = filepath.Clean(path)

	var best *Library
	bestLen := -1
	for i := range o.Libraries {
		lib := &o.Libraries[i]
		for _, root := range lib.Paths {
			if !underRoot(path, root) {
				continue
			}
			if len(root) > bestLen {
				best = lib
				bestLen = len(root)
			}
		}
	}
	return best
}

// ContentTypeFor resolves the content type routed to a path. Paths no
// library claims are mixed.
func (o *Options) ContentTypeFor(path string) string {
	if lib := o.LibraryFor(path); lib != nil {
		return lib.ContentType
	}
	return ContentMixed
}

func underRoot(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(os.PathSeparator)) {
		root += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, root)
}
