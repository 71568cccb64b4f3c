package naming

import (
	"testing"

	"media-catalog/internal/catalog"
)

func TestFileExtraKind(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
		kind     catalog.ExtraKind
	}{
		{"Movie-trailer.mkv", true, catalog.ExtraTrailer},
		{"Movie.trailer.mkv", true, catalog.ExtraTrailer},
		{"Movie_trailer.mkv", true, catalog.ExtraTrailer},
		{"trailer.mkv", true, catalog.ExtraTrailer},
		{"Movie.sample.mp4", true, catalog.ExtraSample},
		{"Movie-behindthescenes.mkv", true, catalog.ExtraBehindTheScenes},
		{"Movie-deleted.mkv", true, catalog.ExtraDeletedScene},
		{"Movie-deletedscene.mkv", true, catalog.ExtraDeletedScene},
		{"Movie-interview.mkv", true, catalog.ExtraInterview},
		{"Movie-featurette.mkv", true, catalog.ExtraFeaturette},
		{"Movie-short.mkv", true, catalog.ExtraShort},
		{"Movie-clip.mkv", true, catalog.ExtraScene},
		{"Movie.mkv", false, ""},
		{"Movietrailer.mkv", false, ""},
		{"Paperclip.mkv", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			kind, ok := FileExtraKind(tt.filename)
			if ok != tt.ok {
				t.Fatalf("FileExtraKind(%q) ok = %v, want %v", tt.filename, ok, tt.ok)
			}
			if kind != tt.kind {
				t.Errorf("FileExtraKind(%q) = %q, want %q", tt.filename, kind, tt.kind)
			}
		})
	}
}

func TestFolderExtraKind(t *testing.T) {
	tests := []struct {
		dirname string
		ok      bool
		kind    catalog.ExtraKind
	}{
		{"trailers", true, catalog.ExtraTrailer},
		{"Trailers", true, catalog.ExtraTrailer},
		{"Behind The Scenes", true, catalog.ExtraBehindTheScenes},
		{"Deleted Scenes", true, catalog.ExtraDeletedScene},
		{"extras", true, catalog.ExtraUnknown},
		{"Other", true, catalog.ExtraUnknown},
		{"Season 1", false, ""},
		{"Movie (2020)", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.dirname, func(t *testing.T) {
			kind, ok := FolderExtraKind(tt.dirname)
			if ok != tt.ok {
				t.Fatalf("FolderExtraKind(%q) ok = %v, want %v", tt.dirname, ok, tt.ok)
			}
			if kind != tt.kind {
				t.Errorf("FolderExtraKind(%q) = %q, want %q", tt.dirname, kind, tt.kind)
			}
		})
	}
}
