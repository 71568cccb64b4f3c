package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/database"
)

// =============================================================================
// Unit Tests
// =============================================================================

// TestPrintUsage tests that printUsage doesn't panic and outputs expected text
func TestPrintUsage(t *testing.T) {
	// Should not panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()

	printUsage()
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase letters",
			input:    "scan",
			expected: "scan",
		},
		{
			name:     "mixed case with digits",
			input:    "Scan2",
			expected: "Scan2",
		},
		{
			name:     "hyphens and underscores",
			input:    "my-command_v2",
			expected: "my-command_v2",
		},
		{
			name:     "spaces replaced",
			input:    "my command",
			expected: "my_command",
		},
		{
			name:     "angle brackets replaced",
			input:    "<script>",
			expected: "_script_",
		},
		{
			name:     "semicolons replaced",
			input:    "cmd;evil",
			expected: "cmd_evil",
		},
		{
			name:     "newlines replaced",
			input:    "cmd\nevil",
			expected: "cmd_evil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeCommand(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCommand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeCommandOnlyContainsAllowedChars(t *testing.T) {
	nasty := "rm -rf / && echo \"pwned\"\x00\x1b[31m"
	got := sanitizeCommand(nasty)
	for _, r := range got {
		allowed := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_'
		if !allowed {
			t.Errorf("sanitizeCommand output contains disallowed character %q", r)
		}
	}
}

// TestDefaultTimeout verifies the default timeout constant
func TestDefaultTimeout(t *testing.T) {
	expected := 30 * time.Second
	if defaultTimeout != expected {
		t.Errorf("defaultTimeout = %v, want %v", defaultTimeout, expected)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		setEnv   bool
		fallback string
		want     string
	}{
		{
			name:     "set variable wins",
			key:      "CATALOGCTL_TEST_SET",
			value:    "/custom",
			setEnv:   true,
			fallback: "/default",
			want:     "/custom",
		},
		{
			name:     "unset variable falls back",
			key:      "CATALOGCTL_TEST_UNSET",
			fallback: "/default",
			want:     "/default",
		},
		{
			name:     "empty variable falls back",
			key:      "CATALOGCTL_TEST_EMPTY",
			value:    "",
			setEnv:   true,
			fallback: "/default",
			want:     "/default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.value)
			}
			got := getEnv(tt.key, tt.fallback)
			if got != tt.want {
				t.Errorf("getEnv(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, make([]byte, 1234), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if got := fileSize(path); got != 1234 {
		t.Errorf("fileSize = %d, want 1234", got)
	}
	if got := fileSize(filepath.Join(dir, "missing.bin")); got != 0 {
		t.Errorf("fileSize on missing file = %d, want 0", got)
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

// seedDatabase creates a catalog database with a few items in dir.
func seedDatabase(t *testing.T, dir string) {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	}()

	items := []*catalog.Item{
		{ID: "col1", Kind: catalog.KindCollection, Name: "Movies", Path: "/media/Movies"},
		{ID: "movie1", Kind: catalog.KindMovie, Name: "Alpha", Path: "/media/Movies/Alpha/Alpha.mkv", ParentID: "col1"},
	}
	if err := db.SaveItems(context.Background(), items); err != nil {
		t.Fatalf("failed to seed items: %v", err)
	}
}

func TestShowStatusIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	seedDatabase(t, dir)
	t.Setenv("CATALOG_DATABASE_DIR", dir)

	if !showStatus(context.Background()) {
		t.Error("Expected showStatus to succeed")
	}
}

func TestRunVacuumIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	seedDatabase(t, dir)
	t.Setenv("CATALOG_DATABASE_DIR", dir)

	if !runVacuum(context.Background()) {
		t.Error("Expected runVacuum to succeed")
	}
}

func TestRunScanIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	libraryRoot := t.TempDir()
	movieDir := filepath.Join(libraryRoot, "Movies", "Avatar (2009)")
	if err := os.MkdirAll(movieDir, 0o755); err != nil {
		t.Fatalf("Failed to create library tree: %v", err)
	}
	moviePath := filepath.Join(movieDir, "Avatar (2009).mkv")
	if err := os.WriteFile(moviePath, []byte("not really a movie"), 0o644); err != nil {
		t.Fatalf("Failed to write movie file: %v", err)
	}

	configDir := t.TempDir()
	optionsTOML := `[[library]]
name = "Movies"
content_type = "movies"
paths = ["` + filepath.Join(libraryRoot, "Movies") + `"]
`
	if err := os.WriteFile(filepath.Join(configDir, "options.toml"), []byte(optionsTOML), 0o644); err != nil {
		t.Fatalf("Failed to write options file: %v", err)
	}

	databaseDir := t.TempDir()
	t.Setenv("CATALOG_LIBRARY_ROOT", libraryRoot)
	t.Setenv("CATALOG_CONFIG_DIR", configDir)
	t.Setenv("CATALOG_DATABASE_DIR", databaseDir)

	if !runScan(context.Background()) {
		t.Fatal("Expected runScan to succeed")
	}

	// The scan must have cataloged the movie
	db, err := database.New(context.Background(), filepath.Join(databaseDir, "catalog.db"))
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	movies, err := db.Query(context.Background(), catalog.Filter{Kinds: []catalog.Kind{catalog.KindMovie}})
	if err != nil {
		t.Fatalf("failed to query movies: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("Expected 1 movie after scan, got %d", len(movies))
	}
	if movies[0].Name != "Avatar" {
		t.Errorf("Movie name = %q, want %q", movies[0].Name, "Avatar")
	}
	if movies[0].Year != 2009 {
		t.Errorf("Movie year = %d, want 2009", movies[0].Year)
	}
}

func TestShowArtworkIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "poster.png"))
	if err := os.WriteFile(filepath.Join(dir, "Movie.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write video file: %v", err)
	}

	if !showArtwork(dir) {
		t.Error("Expected showArtwork to succeed for a valid poster")
	}
}

func TestShowArtworkReportsBrokenImages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "backdrop.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("Failed to write broken image: %v", err)
	}

	if showArtwork(dir) {
		t.Error("Expected showArtwork to fail for an undecodable image")
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 6))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
}
