package catalog

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
)

func TestKindIsFolder(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindFolder, true},
		{KindCollection, true},
		{KindSeries, true},
		{KindSeason, true},
		{KindMovie, false},
		{KindEpisode, false},
		{KindVideo, false},
		{KindAudio, false},
		{KindPlaylist, false},
		{KindPerson, false},
		{KindChannel, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsFolder(); got != tt.want {
				t.Errorf("IsFolder(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindIsVideo(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindMovie, true},
		{KindEpisode, true},
		{KindVideo, true},
		{KindFolder, false},
		{KindAudio, false},
		{KindPlaylist, false},
		{KindPerson, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsVideo(); got != tt.want {
				t.Errorf("IsVideo(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestAddChild(t *testing.T) {
	item := &Item{Kind: KindFolder}

	item.AddChild("a")
	item.AddChild("b")
	item.AddChild("a")

	want := []string{"a", "b"}
	if !reflect.DeepEqual(item.ChildIDs, want) {
		t.Errorf("Expected children %v, got %v", want, item.ChildIDs)
	}
}

func TestRemoveChild(t *testing.T) {
	item := &Item{Kind: KindFolder, ChildIDs: []string{"a", "b", "c"}}

	item.RemoveChild("b")
	if want := []string{"a", "c"}; !reflect.DeepEqual(item.ChildIDs, want) {
		t.Errorf("Expected children %v, got %v", want, item.ChildIDs)
	}

	// Unknown IDs are ignored
	item.RemoveChild("missing")
	if want := []string{"a", "c"}; !reflect.DeepEqual(item.ChildIDs, want) {
		t.Errorf("Expected children unchanged %v, got %v", want, item.ChildIDs)
	}
}

func TestAllPaths(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want []string
	}{
		{
			name: "single file",
			item: Item{Path: "/m/a.mkv"},
			want: []string{"/m/a.mkv"},
		},
		{
			name: "stack parts include the primary once",
			item: Item{
				Path:      "/m/a-cd1.mkv",
				PartPaths: []string{"/m/a-cd1.mkv", "/m/a-cd2.mkv"},
			},
			want: []string{"/m/a-cd1.mkv", "/m/a-cd2.mkv"},
		},
		{
			name: "alternate versions follow parts",
			item: Item{
				Path:           "/m/a.mkv",
				PartPaths:      []string{"/m/a.mkv"},
				AlternatePaths: []string{"/m/a - 4k.mkv"},
			},
			want: []string{"/m/a.mkv", "/m/a - 4k.mkv"},
		},
		{
			name: "empty entries are skipped",
			item: Item{Path: "/m/a.mkv", AlternatePaths: []string{""}},
			want: []string{"/m/a.mkv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.AllPaths()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeleteError(t *testing.T) {
	inner := fs.ErrPermission
	err := &DeleteError{Path: "/m/a.mkv", Err: inner}

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("Expected DeleteError to unwrap to the underlying error")
	}

	var deleteErr *DeleteError
	if !errors.As(error(err), &deleteErr) {
		t.Fatal("Expected errors.As to find DeleteError")
	}
	if deleteErr.Path != "/m/a.mkv" {
		t.Errorf("Expected path %q, got %q", "/m/a.mkv", deleteErr.Path)
	}
}
