package naming

import (
	"regexp"
	"strconv"
	"strings"
)

// Episode holds the numbers parsed from an episode file name. Season is
// -1 when the name carries no season information; the resolver then
// falls back to the parent folder or the default season.
type Episode struct {
	SeriesName string
	Season     int
	Episode    int
	// EndEpisode is set for multi-episode files ("S01E01-E03").
	EndEpisode int
	// Date-named episodes carry a premiere date instead of numbers.
	// Date naming and index naming are mutually exclusive.
	Year, Month, Day int
	IsByDate         bool
}

var (
	sxxeyyRegex  = regexp.MustCompile(`(?i)(?:^|[\\/. _\[(-])s(\d{1,4})[. _-]?[ex](\d{1,3})`)
	crossRegex   = regexp.MustCompile(`(?i)(?:^|[\\/. _\[(-])(\d{1,4})x(\d{1,3})`)
	dateYMDRegex = regexp.MustCompile(`(19\d{2}|20\d{2})[. _-](0?[1-9]|1[0-2])[. _-](0?[1-9]|[12]\d|3[01])`)
	dateDMYRegex = regexp.MustCompile(`(0?[1-9]|[12]\d|3[01])[. _-](0?[1-9]|1[0-2])[. _-](19\d{2}|20\d{2})`)
	namedEpRegex = regexp.MustCompile(`(?i)(?:^|[. _-])(?:episode|ep)[. _-]?(\d{1,3})`)
	// Continuation of a multi-episode range: "-03", "-E03", "E02", "x03".
	// Plain numbers need the dash form so ".720p" decorations never read
	// as a range.
	rangeRegex = regexp.MustCompile(`(?i)^(?:[ _.]?[ex]|-e?)(\d{1,3})`)

	absoluteRegex = regexp.MustCompile(`^(\d{1,4})(?:[ _.-]|$)`)
)

// ParseEpisode extracts episode identification from a file name.
// Patterns are tried in order: SxxEyy, season-x-episode ("1x02"), dates
// (yyyy-mm-dd then dd.mm.yyyy), and named episodes ("Episode 7").
func ParseEpisode(fileName string) (Episode, bool) {
	name := trimExt(fileName)

	if loc := sxxeyyRegex.FindStringSubmatchIndex(name); loc != nil {
		season, _ := strconv.Atoi(name[loc[2]:loc[3]])
		episode, _ := strconv.Atoi(name[loc[4]:loc[5]])
		ep := Episode{
			SeriesName: seriesPrefix(name[:loc[0]]),
			Season:     season,
			Episode:    episode,
		}
		ep.EndEpisode = scanEpisodeRange(name[loc[1]:], episode)
		return ep, true
	}

	if loc := crossRegex.FindStringSubmatchIndex(name); loc != nil {
		season, _ := strconv.Atoi(name[loc[2]:loc[3]])
		episode, _ := strconv.Atoi(name[loc[4]:loc[5]])
		ep := Episode{
			SeriesName: seriesPrefix(name[:loc[0]]),
			Season:     season,
			Episode:    episode,
		}
		ep.EndEpisode = scanEpisodeRange(name[loc[1]:], episode)
		return ep, true
	}

	if loc := dateYMDRegex.FindStringSubmatchIndex(name); loc != nil {
		year, _ := strconv.Atoi(name[loc[2]:loc[3]])
		month, _ := strconv.Atoi(name[loc[4]:loc[5]])
		day, _ := strconv.Atoi(name[loc[6]:loc[7]])
		return Episode{
			SeriesName: seriesPrefix(name[:loc[0]]),
			Season:     -1,
			Year:       year,
			Month:      month,
			Day:        day,
			IsByDate:   true,
		}, true
	}

	if loc := dateDMYRegex.FindStringSubmatchIndex(name); loc != nil {
		day, _ := strconv.Atoi(name[loc[2]:loc[3]])
		month, _ := strconv.Atoi(name[loc[4]:loc[5]])
		year, _ := strconv.Atoi(name[loc[6]:loc[7]])
		return Episode{
			SeriesName: seriesPrefix(name[:loc[0]]),
			Season:     -1,
			Year:       year,
			Month:      month,
			Day:        day,
			IsByDate:   true,
		}, true
	}

	if loc := namedEpRegex.FindStringSubmatchIndex(name); loc != nil {
		episode, _ := strconv.Atoi(name[loc[2]:loc[3]])
		return Episode{
			SeriesName: seriesPrefix(name[:loc[0]]),
			Season:     -1,
			Episode:    episode,
		}, true
	}

	return Episode{}, false
}

// scanEpisodeRange reads range continuations right after the main episode
// match and returns the highest end number, or 0 when the file names a
// single episode. A number immediately followed by another digit is a
// decoration ("1080p"), not a range.
func scanEpisodeRange(rest string, episode int) int {
	end := 0
	for {
		m := rangeRegex.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		if m[3] < len(rest) && rest[m[3]] >= '0' && rest[m[3]] <= '9' {
			break
		}
		n, err := strconv.Atoi(rest[m[2]:m[3]])
		if err != nil {
			break
		}
		if n > end {
			end = n
		}
		rest = rest[m[1]:]
	}
	if end > episode {
		return end
	}
	return 0
}

// seriesPrefix cleans the text before an episode marker into a series name.
func seriesPrefix(prefix string) string {
	return CleanString(trimSeparators(prefix))
}

// ContainsEpisodePattern reports whether a name fragment carries an
// episode numbering pattern. Used to keep episode files out of
// alternate-version groups.
func ContainsEpisodePattern(s string) bool {
	return sxxeyyRegex.MatchString(s) || crossRegex.MatchString(s)
}

// ParseAbsoluteEpisode reads a leading bare number as an absolute episode
// number ("103 - The Title.mkv"). Only meaningful for libraries that opt
// in to absolute numbering.
func ParseAbsoluteEpisode(fileName string) (int, bool) {
	name := trimExt(fileName)
	m := absoluteRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// seasonFolderPrefixes are the folder-name prefixes recognized as season
// folders, in the common library languages.
var seasonFolderPrefixes = []string{
	"season", "saison", "staffel", "temporada", "stagione", "series",
}

// ParseSeasonFolder extracts a season number from a folder name.
// "Specials" maps to season 0.
func ParseSeasonFolder(name string) (int, bool) {
	n := strings.ToLower(trimSeparators(name))
	if n == "" {
		return 0, false
	}
	if n == "specials" {
		return 0, true
	}

	for _, prefix := range seasonFolderPrefixes {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		rest := strings.TrimLeft(n[len(prefix):], " _.-")
		if num, ok := leadingInt(rest); ok {
			return num, true
		}
	}

	// "S1" / "S01"
	if n[0] == 's' && allDigits(n[1:]) {
		num, err := strconv.Atoi(n[1:])
		if err == nil {
			return num, true
		}
	}

	// Bare number folders ("1", "02")
	if allDigits(n) {
		num, err := strconv.Atoi(n)
		if err == nil {
			return num, true
		}
	}

	return 0, false
}

func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
