package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// yearRegex matches a name followed by a plausible release year. The year
// must be separated from the name and either end the string or be followed
// by a separator and a non-digit, so "Movie 20000 Leagues" and bare years
// stay untouched.
var yearRegex = regexp.MustCompile(`^(.*[^_.()\[\]\- ])[_.()\[\]\- ]+\(?(19\d{2}|20\d{2})\)?([_.()\[\]\- ][^0-9].*)?$`)

// cleanTokens are the decorations stripped from the end of a name. The
// name is cut at the first separator-delimited occurrence of any token.
var cleanTokens = []string{
	"2160p", "1080p", "1080i", "720p", "720i", "576p", "576i", "480p", "480i",
	"4k", "uhd", "ultrahd", "hdr", "hdr10", "dv", "sdr",
	"bluray", "blu-ray", "bdrip", "brrip", "bd25", "bd50",
	"dvd", "dvdrip", "dvdscr", "hddvd",
	"hdtv", "hdtvrip", "hdrip", "pdtv", "ntsc", "pal",
	"webrip", "webdl", "web-dl",
	"x264", "x265", "h264", "h265", "hevc", "avc", "xvid", "divx",
	"aac", "ac3", "dts", "truehd", "atmos", "flac",
	"remux", "proper", "repack", "rerip", "internal", "limited",
	"unrated", "extended", "remastered", "retail", "screener", "cam",
	"telesync", "telecine", "multisubs", "3d", "sbs", "hsbs", "tab", "htab",
}

var cleanTokenRegex *regexp.Regexp

func init() {
	escaped := make([]string, len(cleanTokens))
	for i, tok := range cleanTokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	// A token counts only when bracketed by separators (or the end), and
	// anything inside square brackets is always decoration.
	cleanTokenRegex = regexp.MustCompile(`(?i)[ _,.()\[\]-](` + strings.Join(escaped, "|") + `|\[.*\])([ _,.()\[\]-]|$)`)
}

// ParseName splits a name into its title and release year. Names without
// a recognizable year return the cleaned input and 0. Decorations are
// stripped first when they hide the year ("Movie.2010.1080p.x264").
//
//	ParseName("Inception (2010)")      // "Inception", 2010
//	ParseName("Inception.2010.1080p")  // "Inception", 2010
//	ParseName("Inception")             // "Inception", 0
func ParseName(name string) (string, int) {
	if title, year, ok := splitYear(name); ok {
		return CleanString(title), year
	}
	cleaned := CleanString(name)
	if cleaned != name {
		if title, year, ok := splitYear(cleaned); ok {
			return CleanString(title), year
		}
	}
	return cleaned, 0
}

func splitYear(name string) (string, int, bool) {
	m := yearRegex.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], year, true
}

// ParseFileName strips the extension from a file name and parses it like
// ParseName.
func ParseFileName(fileName string) (string, int) {
	return ParseName(trimExt(fileName))
}

// CleanString removes trailing release decorations (resolution, codec,
// source tags, bracketed groups) from a name and trims separator runs.
func CleanString(name string) string {
	if loc := cleanTokenRegex.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	return strings.Trim(name, " _.-")
}

func trimExt(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

func trimSeparators(s string) string {
	return strings.Trim(s, " _.-")
}
