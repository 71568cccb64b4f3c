package naming

import "testing"

func TestBuildVideosStack(t *testing.T) {
	paths := []string{
		"/media/Movie (2019)/Movie (2019)-cd1.mkv",
		"/media/Movie (2019)/Movie (2019)-cd2.mkv",
	}

	videos := BuildVideos("Movie (2019)", paths)

	if len(videos) != 1 {
		t.Fatalf("Expected 1 video, got %d", len(videos))
	}
	if len(videos[0].Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(videos[0].Files))
	}
	if videos[0].Name != "Movie" {
		t.Errorf("Expected name Movie, got %q", videos[0].Name)
	}
	if videos[0].Year != 2019 {
		t.Errorf("Expected year 2019, got %d", videos[0].Year)
	}
}

func TestBuildVideosMarkerOnlyStackUsesFolderName(t *testing.T) {
	paths := []string{
		"/media/Movie (2019)/cd1.mkv",
		"/media/Movie (2019)/cd2.mkv",
	}

	videos := BuildVideos("Movie (2019)", paths)

	if len(videos) != 1 {
		t.Fatalf("Expected 1 video, got %d", len(videos))
	}
	if videos[0].Name != "Movie" {
		t.Errorf("Expected name from folder, got %q", videos[0].Name)
	}
	if videos[0].Year != 2019 {
		t.Errorf("Expected year from folder, got %d", videos[0].Year)
	}
}

func TestGroupVersionsAlternates(t *testing.T) {
	paths := []string{
		"/media/Movie (2020)/Movie (2020) - 1080p.mkv",
		"/media/Movie (2020)/Movie (2020) - 720p.mkv",
	}

	videos := BuildVideos("Movie (2020)", paths)

	if len(videos) != 1 {
		t.Fatalf("Expected 1 video, got %d", len(videos))
	}
	if len(videos[0].AlternateVersions) != 1 {
		t.Fatalf("Expected 1 alternate version, got %d", len(videos[0].AlternateVersions))
	}
	if videos[0].PrimaryPath() != "/media/Movie (2020)/Movie (2020) - 1080p.mkv" {
		t.Errorf("Expected 1080p primary, got %q", videos[0].PrimaryPath())
	}

	// Grouping its own output again changes nothing
	again := GroupVersions("Movie (2020)", videos)
	if len(again) != 1 {
		t.Fatalf("Regrouping changed video count to %d", len(again))
	}
	if len(again[0].AlternateVersions) != 1 {
		t.Errorf("Regrouping changed alternates to %d", len(again[0].AlternateVersions))
	}
}

func TestGroupVersionsRejectsEpisodes(t *testing.T) {
	paths := []string{
		"/media/Show/Show S01E01.mkv",
		"/media/Show/Show S01E02.mkv",
	}

	videos := BuildVideos("Show", paths)

	if len(videos) != 2 {
		t.Fatalf("Expected 2 separate videos, got %d", len(videos))
	}
	for _, v := range videos {
		if len(v.AlternateVersions) != 0 {
			t.Errorf("Expected no alternates, got %d", len(v.AlternateVersions))
		}
	}
}

func TestGroupVersionsYearMismatch(t *testing.T) {
	videos := []*Video{
		{Name: "Movie", Year: 2020, Files: []string{"/media/Movie/Movie (2020).mkv"}},
		{Name: "Movie", Year: 0, Files: []string{"/media/Movie/Movie - rough cut.mkv"}},
	}

	grouped := GroupVersions("Movie", videos)

	if len(grouped) != 2 {
		t.Errorf("Expected 2 videos on year mismatch, got %d", len(grouped))
	}
}

func TestGroupVersionsAllOrNothing(t *testing.T) {
	// One non-matching file name blocks grouping for the whole folder
	videos := []*Video{
		{Name: "Movie", Files: []string{"/media/Movie/Movie.mkv"}},
		{Name: "Movie", Files: []string{"/media/Movie/Movie - 720p.mkv"}},
		{Name: "Unrelated", Files: []string{"/media/Movie/Unrelated.mkv"}},
	}

	grouped := GroupVersions("Movie", videos)

	if len(grouped) != 3 {
		t.Errorf("Expected 3 ungrouped videos, got %d", len(grouped))
	}
}

func TestGroupVersionsMovesExtrasToPrimary(t *testing.T) {
	trailer := VideoFile{Path: "/media/Movie (2020)/Movie (2020)-trailer.mkv", Name: "Movie"}
	videos := []*Video{
		{Name: "Movie", Year: 2020,
			Files:  []string{"/media/Movie (2020)/Movie (2020).mkv"},
			Extras: []VideoFile{trailer}},
		{Name: "Movie", Year: 2020,
			Files: []string{"/media/Movie (2020)/Movie (2020) - 720p.mkv"}},
	}

	grouped := GroupVersions("Movie (2020)", videos)

	if len(grouped) != 1 {
		t.Fatalf("Expected 1 video, got %d", len(grouped))
	}

	primary := grouped[0]
	if primary.PrimaryPath() != "/media/Movie (2020)/Movie (2020) - 720p.mkv" {
		t.Fatalf("Unexpected primary %q", primary.PrimaryPath())
	}
	if len(primary.Extras) != 1 {
		t.Fatalf("Expected extras on primary, got %d", len(primary.Extras))
	}
	if primary.Extras[0].Path != trailer.Path {
		t.Errorf("Expected trailer moved to primary, got %q", primary.Extras[0].Path)
	}
	for _, alt := range primary.AlternateVersions {
		if len(alt.Extras) != 0 {
			t.Errorf("Expected no extras left on alternate, got %d", len(alt.Extras))
		}
	}
}

func TestParseVideoFile(t *testing.T) {
	vf := ParseVideoFile("/media/Movie (2011)/Movie (2011).mkv", false)

	if vf.Name != "Movie" {
		t.Errorf("Expected name Movie, got %q", vf.Name)
	}
	if vf.Year != 2011 {
		t.Errorf("Expected year 2011, got %d", vf.Year)
	}
	if vf.IsDir {
		t.Error("Expected IsDir=false")
	}
}
