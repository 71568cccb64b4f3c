package scanner

import (
	"path/filepath"
	"strings"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/images"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/options"
	"media-catalog/internal/resolvers"
)

// Rule decides whether one enumerated entry stays out of the catalog.
// Rules must not panic; a panicking rule is treated as "not ignored"
// and logged.
type Rule interface {
	Name() string
	ShouldIgnore(entry fsops.Entry, parent *catalog.Item) bool
}

// Sample videos larger than this are assumed to be real content that
// happens to have "sample" in its name.
const sampleMaxBytes int64 = 300 << 20

// DefaultRules returns the built-in ignore rules plus one rule per
// options-supplied glob.
func DefaultRules(opts *options.Options) []Rule {
	rules := []Rule{
		hiddenRule{},
		systemDirRule{},
		sampleRule{},
		artworkDirRule{},
	}
	if opts != nil {
		for _, g := range opts.IgnoreGlobs {
			rules = append(rules, globRule{pattern: g})
		}
	}
	return rules
}

// ShouldIgnore runs the entry through every registered rule. The first
// rule that claims the entry wins.
func (m *Manager) ShouldIgnore(entry fsops.Entry, parent *catalog.Item) bool {
	for _, r := range m.rules {
		if applyRule(r, entry, parent) {
			metrics.IgnoredEntriesTotal.WithLabelValues(r.Name()).Inc()
			logging.Debug("Ignoring %s (rule %s)", entry.Path, r.Name())
			return true
		}
	}
	return false
}

func applyRule(r Rule, entry fsops.Entry, parent *catalog.Item) (ignored bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("Ignore rule %s panicked on %s: %v", r.Name(), entry.Path, rec)
			ignored = false
		}
	}()
	return r.ShouldIgnore(entry, parent)
}

// hiddenRule drops dot-files and dot-directories.
type hiddenRule struct{}

func (hiddenRule) Name() string { return "hidden" }

func (hiddenRule) ShouldIgnore(entry fsops.Entry, _ *catalog.Item) bool {
	return strings.HasPrefix(entry.Name, ".")
}

// systemDirRule drops directories created by NAS firmware and operating
// systems rather than by the user.
type systemDirRule struct{}

var systemDirNames = map[string]bool{
	"#recycle":                  true,
	"$recycle.bin":              true,
	"system volume information": true,
	"@eadir":                    true,
	".@__thumb":                 true,
	"lost+found":                true,
}

func (systemDirRule) Name() string { return "system" }

func (systemDirRule) ShouldIgnore(entry fsops.Entry, _ *catalog.Item) bool {
	if !entry.IsDir {
		return false
	}
	return systemDirNames[strings.ToLower(entry.Name)]
}

// sampleRule drops small video files named as samples.
type sampleRule struct{}

func (sampleRule) Name() string { return "sample" }

func (sampleRule) ShouldIgnore(entry fsops.Entry, _ *catalog.Item) bool {
	if entry.IsDir || !resolvers.IsVideoFile(entry.Name) {
		return false
	}
	if entry.Size >= sampleMaxBytes {
		return false
	}
	stem := strings.ToLower(strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name)))
	return stem == "sample" ||
		strings.HasSuffix(stem, "-sample") ||
		strings.HasSuffix(stem, ".sample")
}

// artworkDirRule keeps artwork directories out of the item tree. The
// artwork sweep reads them directly off the filesystem instead.
type artworkDirRule struct{}

func (artworkDirRule) Name() string { return "artwork" }

func (artworkDirRule) ShouldIgnore(entry fsops.Entry, _ *catalog.Item) bool {
	if !entry.IsDir {
		return false
	}
	_, ok := images.ArtworkDirType(entry.Name)
	return ok
}

// globRule drops entries whose base name matches an options-supplied
// pattern.
type globRule struct {
	pattern string
}

func (r globRule) Name() string { return "glob" }

func (r globRule) ShouldIgnore(entry fsops.Entry, _ *catalog.Item) bool {
	ok, err := filepath.Match(r.pattern, entry.Name)
	if err != nil {
		return false
	}
	return ok
}
