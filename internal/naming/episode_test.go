package naming

import "testing"

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		input   string
		ok      bool
		series  string
		season  int
		episode int
	}{
		{"Show S01E02.mkv", true, "Show", 1, 2},
		{"Show.s01e02.720p.mkv", true, "Show", 1, 2},
		{"Show - S2017E01.mkv", true, "Show", 2017, 1},
		{"S01E02.mkv", true, "", 1, 2},
		{"Show 1x02.mkv", true, "Show", 1, 2},
		{"Show Episode 7.mkv", true, "Show", -1, 7},
		{"Show ep12.mkv", true, "Show", -1, 12},
		{"Just a Movie (2010).mkv", false, "", 0, 0},
		{"Mars01e02.mkv", false, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ep, ok := ParseEpisode(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseEpisode(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if ep.SeriesName != tt.series {
				t.Errorf("SeriesName = %q, want %q", ep.SeriesName, tt.series)
			}
			if ep.Season != tt.season {
				t.Errorf("Season = %d, want %d", ep.Season, tt.season)
			}
			if ep.Episode != tt.episode {
				t.Errorf("Episode = %d, want %d", ep.Episode, tt.episode)
			}
		})
	}
}

func TestParseEpisodeByDate(t *testing.T) {
	tests := []struct {
		input            string
		year, month, day int
	}{
		{"Show.2017.04.12.mkv", 2017, 4, 12},
		{"Show 2017-04-12 Guest.mkv", 2017, 4, 12},
		{"Show.12.04.2017.mkv", 2017, 4, 12},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ep, ok := ParseEpisode(tt.input)
			if !ok {
				t.Fatalf("ParseEpisode(%q) ok = false", tt.input)
			}
			if !ep.IsByDate {
				t.Fatal("Expected IsByDate=true")
			}
			if ep.Year != tt.year || ep.Month != tt.month || ep.Day != tt.day {
				t.Errorf("Date = %d-%d-%d, want %d-%d-%d",
					ep.Year, ep.Month, ep.Day, tt.year, tt.month, tt.day)
			}
			if ep.Season != -1 {
				t.Errorf("Expected Season=-1 for dated episode, got %d", ep.Season)
			}
		})
	}
}

func TestParseEpisodeRanges(t *testing.T) {
	tests := []struct {
		input      string
		episode    int
		endEpisode int
	}{
		{"Show S01E01-E03.mkv", 1, 3},
		{"Show S01E01-03.mkv", 1, 3},
		{"Show S01E01E02E03.mkv", 1, 3},
		{"Show S01E01 E02.mkv", 1, 2},
		{"Show 1x02x03.mkv", 2, 3},
		// Decorations after the episode are not ranges
		{"Show S01E01-1080p.mkv", 1, 0},
		{"Show.S01E01.720p.mkv", 1, 0},
		{"Show S01E05.mkv", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ep, ok := ParseEpisode(tt.input)
			if !ok {
				t.Fatalf("ParseEpisode(%q) ok = false", tt.input)
			}
			if ep.Episode != tt.episode {
				t.Errorf("Episode = %d, want %d", ep.Episode, tt.episode)
			}
			if ep.EndEpisode != tt.endEpisode {
				t.Errorf("EndEpisode = %d, want %d", ep.EndEpisode, tt.endEpisode)
			}
		})
	}
}

func TestContainsEpisodePattern(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{" S01E01", true},
		{" 1x02", true},
		{" - 1080p", false},
		{" - Directors Cut", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ContainsEpisodePattern(tt.input)
			if got != tt.expected {
				t.Errorf("ContainsEpisodePattern(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAbsoluteEpisode(t *testing.T) {
	tests := []struct {
		input    string
		ok       bool
		expected int
	}{
		{"103 - The Title.mkv", true, 103},
		{"05.mkv", true, 5},
		{"The Title.mkv", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAbsoluteEpisode(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAbsoluteEpisode(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("ParseAbsoluteEpisode(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseSeasonFolder(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		season int
	}{
		{"Season 1", true, 1},
		{"Season 02", true, 2},
		{"Specials", true, 0},
		{"S01", true, 1},
		{"3", true, 3},
		{"Staffel 2", true, 2},
		{"Temporada 4", true, 4},
		{"Series 3", true, 3},
		{"Season", false, 0},
		{"Extras", false, 0},
		{"Behind The Scenes", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			season, ok := ParseSeasonFolder(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseSeasonFolder(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if season != tt.season {
				t.Errorf("ParseSeasonFolder(%q) = %d, want %d", tt.input, season, tt.season)
			}
		})
	}
}
