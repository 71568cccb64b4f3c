package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"media-catalog/internal/catalog"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	var tables int
	err := db.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('items', 'people')
	`).Scan(&tables)
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	if tables != 2 {
		t.Errorf("Expected 2 tables, got %d", tables)
	}
}

func TestNewReopensExistingDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	db, err := New(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	item := &catalog.Item{
		ID:   "movie1",
		Kind: catalog.KindMovie,
		Name: "Alpha",
		Path: "/lib/movies/Alpha (2001)/Alpha.mkv",
		Year: 2001,
	}
	if err := db.SaveItems(ctx, []*catalog.Item{item}); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening must run schema setup and migrations without damage.
	db, err = New(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	got, err := db.RetrieveItem(ctx, "movie1")
	if err != nil {
		t.Fatalf("RetrieveItem failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected saved item to survive reopen, got nil")
	}
	if got.Name != "Alpha" || got.Year != 2001 {
		t.Errorf("Expected Alpha (2001), got %s (%d)", got.Name, got.Year)
	}
}

func TestEndBatchRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginBatch()
	if err != nil {
		t.Fatalf("BeginBatch failed: %v", err)
	}
	if err := upsertItem(tx, &catalog.Item{ID: "doomed", Kind: catalog.KindMovie, Name: "Doomed", Path: "/lib/doomed.mkv"}); err != nil {
		t.Fatalf("upsertItem failed: %v", err)
	}

	boom := errors.New("boom")
	if err := db.EndBatch(tx, boom); !errors.Is(err, boom) {
		t.Errorf("Expected EndBatch to return the batch error, got %v", err)
	}

	got, err := db.RetrieveItem(ctx, "doomed")
	if err != nil {
		t.Fatalf("RetrieveItem failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected rolled-back item to be absent, got %+v", got)
	}
}

func TestRefreshStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	items := []*catalog.Item{
		{ID: "c1", Kind: catalog.KindCollection, Name: "Movies", Path: "/lib/movies"},
		{ID: "s1", Kind: catalog.KindSeries, Name: "The Show", Path: "/lib/tv/The Show"},
		{ID: "m1", Kind: catalog.KindMovie, Name: "Alpha", Path: "/lib/movies/Alpha.mkv"},
		{ID: "m2", Kind: catalog.KindMovie, Name: "Beta", Path: "/lib/movies/Beta.mkv"},
	}
	if err := db.SaveItems(ctx, items); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	stats, err := db.RefreshStats(ctx)
	if err != nil {
		t.Fatalf("RefreshStats failed: %v", err)
	}
	if stats.ItemsByKind["movie"] != 2 {
		t.Errorf("Expected 2 movies, got %d", stats.ItemsByKind["movie"])
	}
	if stats.TotalFolders != 2 {
		t.Errorf("Expected 2 folders (collection + series), got %d", stats.TotalFolders)
	}

	cached := db.GetStats()
	if cached.ItemsByKind["movie"] != 2 {
		t.Errorf("Expected cached stats to match, got %d movies", cached.ItemsByKind["movie"])
	}
}

func TestVacuum(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Vacuum(); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestSaveItemsStampsDateLastSaved(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	item := &catalog.Item{ID: "m1", Kind: catalog.KindMovie, Name: "Alpha", Path: "/lib/Alpha.mkv"}
	if err := db.SaveItems(ctx, []*catalog.Item{item}); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	if item.DateLastSaved.Before(before) {
		t.Errorf("Expected DateLastSaved to be stamped, got %v", item.DateLastSaved)
	}

	got, err := db.RetrieveItem(ctx, "m1")
	if err != nil {
		t.Fatalf("RetrieveItem failed: %v", err)
	}
	if !got.DateLastSaved.Equal(item.DateLastSaved) {
		t.Errorf("Expected stored DateLastSaved %v, got %v", item.DateLastSaved, got.DateLastSaved)
	}
}
