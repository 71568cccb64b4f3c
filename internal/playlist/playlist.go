package playlist

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Playlist is one parsed playlist file.
type Playlist struct {
	// Name is the playlist title, falling back to the file stem when
	// the format carries none.
	Name string `json:"name"`
	// Path is the playlist file itself.
	Path string `json:"path"`
	// Entries are the referenced media files in play order.
	Entries []Entry `json:"entries"`
}

// Entry is one referenced media file.
type Entry struct {
	// Name is the display name: the EXTINF title when present, else the
	// referenced file name.
	Name string `json:"name"`
	// Path is the resolved absolute path when the file was found, else
	// the cleaned source reference.
	Path string `json:"path"`
	// OrigPath is the reference exactly as written in the playlist.
	OrigPath string `json:"origPath"`
	// Exists reports whether the referenced file was found on disk.
	Exists bool `json:"exists"`
}

// extensions maps playlist file extensions to their parser.
var extensions = map[string]func(string) (*Playlist, error){
	".m3u":  ParseM3U,
	".m3u8": ParseM3U,
	".wpl":  ParseWPL,
	".zpl":  ParseWPL,
}

// IsPlaylistFile reports whether a file name has a playlist extension.
func IsPlaylistFile(name string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Parse reads a playlist file, dispatching on its extension.
func Parse(path string) (*Playlist, error) {
	parse, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported playlist format %q", filepath.Ext(path))
	}
	return parse(path)
}

// wplDocument is the smil layout Windows Media Player and Zune write.
type wplDocument struct {
	XMLName xml.Name `xml:"smil"`
	Head    struct {
		Title string `xml:"title"`
	} `xml:"head"`
	Body struct {
		Seq struct {
			Media []struct {
				Src string `xml:"src,attr"`
			} `xml:"media"`
		} `xml:"seq"`
	} `xml:"body"`
}

// ParseWPL reads a WPL or ZPL playlist. Media references are resolved
// against the playlist's own directory; references written on another
// system fall back to a sibling file with the same name.
func ParseWPL(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc wplDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	pl := &Playlist{
		Name: strings.TrimSpace(doc.Head.Title),
		Path: path,
	}
	if pl.Name == "" {
		pl.Name = stem(path)
	}

	dir := filepath.Dir(path)
	for _, media := range doc.Body.Seq.Media {
		if strings.TrimSpace(media.Src) == "" {
			continue
		}
		entry := resolveEntry(dir, media.Src)
		pl.Entries = append(pl.Entries, entry)
	}
	return pl, nil
}

// ParseM3U reads an M3U or M3U8 playlist. The extended directives
// #PLAYLIST (title) and #EXTINF (per-entry display name) are honored;
// other comment lines are skipped.
func ParseM3U(path string) (*Playlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pl := &Playlist{
		Name: stem(path),
		Path: path,
	}

	dir := filepath.Dir(path)
	pendingName := ""

	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#PLAYLIST:"):
			if title := strings.TrimSpace(strings.TrimPrefix(line, "#PLAYLIST:")); title != "" {
				pl.Name = title
			}
		case strings.HasPrefix(line, "#EXTINF:"):
			// #EXTINF:<duration>,<title>
			if _, title, ok := strings.Cut(line, ","); ok {
				pendingName = strings.TrimSpace(title)
			}
		case strings.HasPrefix(line, "#"):
			continue
		default:
			entry := resolveEntry(dir, line)
			if pendingName != "" {
				entry.Name = pendingName
				pendingName = ""
			}
			pl.Entries = append(pl.Entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pl, nil
}

// resolveEntry locates one media reference on disk. References use the
// playlist's own directory as the anchor; a reference written on
// another machine (drive letter, foreign mount) falls back to a file of
// the same name next to the playlist.
func resolveEntry(dir, src string) Entry {
	cleaned := strings.ReplaceAll(src, "\\", "/")
	entry := Entry{
		Name:     filepath.Base(cleaned),
		OrigPath: src,
	}

	candidates := []string{cleaned}
	if !filepath.IsAbs(cleaned) {
		candidates = []string{filepath.Join(dir, cleaned)}
	}
	candidates = append(candidates, filepath.Join(dir, filepath.Base(cleaned)))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			entry.Path = candidate
			entry.Exists = true
			return entry
		}
	}

	entry.Path = cleaned
	return entry
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
