package scanner

import (
	"testing"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/options"
	"media-catalog/internal/resolvers"
)

func ignoreManager(opts *options.Options) *Manager {
	return NewManager(Config{
		Root: "/lib", FS: newFakeFS(), Repo: newFakeRepo(),
		Cache: catalog.NewCache(nil), Options: opts, Chain: resolvers.Default(nil),
	})
}

func TestShouldIgnore(t *testing.T) {
	m := ignoreManager(nil)

	tests := []struct {
		name  string
		entry fsops.Entry
		want  bool
	}{
		{"dot file", fileEntry("/lib/.DS_Store", 10_000), true},
		{"dot directory", dirEntry("/lib/.git"), true},
		{"recycle bin", dirEntry("/lib/#recycle"), true},
		{"windows recycle bin", dirEntry("/lib/$RECYCLE.BIN"), true},
		{"system volume information", dirEntry("/lib/System Volume Information"), true},
		{"synology metadata", dirEntry("/lib/@eaDir"), true},
		{"qnap thumbnails", dirEntry("/lib/.@__thumb"), true},
		{"lost and found", dirEntry("/lib/lost+found"), true},
		{"system name as file", fileEntry("/lib/#recycle", 100), false},
		{"small sample video", fileEntry("/lib/sample.mkv", 50_000_000), true},
		{"suffixed sample video", fileEntry("/lib/Big Film-sample.mp4", 50_000_000), true},
		{"large video named sample", fileEntry("/lib/sample.mkv", 900_000_000), false},
		{"sample text file", fileEntry("/lib/sample.txt", 100), false},
		{"extrafanart directory", dirEntry("/lib/extrafanart"), true},
		{"extrathumbs directory", dirEntry("/lib/extrathumbs"), true},
		{"regular movie", fileEntry("/lib/Big Film (2020).mkv", 6_000_000_000), false},
		{"regular directory", dirEntry("/lib/Big Film (2020)"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ShouldIgnore(tt.entry, nil); got != tt.want {
				t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.entry.Name, got, tt.want)
			}
		})
	}
}

func TestShouldIgnoreOptionsGlobs(t *testing.T) {
	m := ignoreManager(&options.Options{IgnoreGlobs: []string{"*.tmp", "junk*"}})

	tests := []struct {
		name string
		want bool
	}{
		{"upload.tmp", true},
		{"junkfile.mkv", true},
		{"Keeper (2020).mkv", false},
	}
	for _, tt := range tests {
		entry := fileEntry("/lib/"+tt.name, 5_000_000_000)
		if got := m.ShouldIgnore(entry, nil); got != tt.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

type panickyRule struct{}

func (panickyRule) Name() string { return "panicky" }

func (panickyRule) ShouldIgnore(fsops.Entry, *catalog.Item) bool {
	panic("rule exploded")
}

func TestIgnoreRulePanicIsContained(t *testing.T) {
	m := ignoreManager(nil)
	m.rules = append([]Rule{panickyRule{}}, m.rules...)

	if m.ShouldIgnore(fileEntry("/lib/Movie.mkv", 5_000_000_000), nil) {
		t.Error("Expected panicking rule to count as not ignored")
	}
	if !m.ShouldIgnore(fileEntry("/lib/.hidden", 100), nil) {
		t.Error("Expected later rules to still run after a panic")
	}
}
