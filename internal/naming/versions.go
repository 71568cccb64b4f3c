package naming

import (
	"path/filepath"
	"sort"
	"strings"

	"media-catalog/internal/catalog"
)

// VideoFile is one parsed video file or folder name.
type VideoFile struct {
	Path      string
	Name      string
	Year      int
	ExtraKind catalog.ExtraKind
	IsDir     bool
}

// ParseVideoFile parses a path into a VideoFile. Files whose name
// carries an extra keyword suffix get ExtraKind set; everything else
// leaves it empty.
func ParseVideoFile(path string, isDir bool) VideoFile {
	base := filepath.Base(path)
	vf := VideoFile{Path: path, IsDir: isDir}
	if !isDir {
		base = trimExt(base)
		if kind, ok := FileExtraKind(filepath.Base(path)); ok {
			vf.ExtraKind = kind
		}
	}
	vf.Name, vf.Year = ParseName(base)
	return vf
}

// Video is one logical video: a single file or a stack, together with
// any grouped alternate versions and owned extras.
type Video struct {
	Name string
	Year int
	// Files holds the physical file paths in play order. Always at
	// least one entry; more than one for stacked videos.
	Files             []string
	AlternateVersions []*Video
	Extras            []VideoFile
}

// PrimaryPath returns the first file of the video.
func (v *Video) PrimaryPath() string {
	if len(v.Files) == 0 {
		return ""
	}
	return v.Files[0]
}

// BuildVideos assembles logical videos from the video files of one
// folder: stack detection first, then alternate-version grouping against
// the folder name. folderName is the plain directory name, used both for
// naming marker-only stacks and as the version-group prefix.
func BuildVideos(folderName string, paths []string) []*Video {
	stacks, singles := ResolveStacks(paths)

	videos := make([]*Video, 0, len(stacks)+len(singles))
	for i := range stacks {
		stack := stacks[i]
		name := stack.Name
		if name == "" {
			name = trimSeparators(folderName)
		}
		parsedName, year := ParseName(name)
		videos = append(videos, &Video{
			Name:  parsedName,
			Year:  year,
			Files: stack.Files,
		})
	}
	for _, p := range singles {
		vf := ParseVideoFile(p, false)
		name := vf.Name
		if name == "" {
			name, _ = ParseName(trimSeparators(folderName))
		}
		videos = append(videos, &Video{
			Name:  name,
			Year:  vf.Year,
			Files: []string{p},
		})
	}

	return GroupVersions(folderName, videos)
}

// GroupVersions folds a folder's videos into one primary video with
// alternate versions when every video qualifies: each file name must
// extend the folder name with an empty or space/dash-led suffix that is
// not an episode pattern, and all videos must agree on the year. If any
// video fails, no grouping happens at all. The alphabetically first
// video becomes the primary. Calling GroupVersions on its own output is
// a no-op.
func GroupVersions(folderName string, videos []*Video) []*Video {
	if len(videos) < 2 {
		return videos
	}

	folder := trimSeparators(folderName)
	if folder == "" {
		return videos
	}

	if !haveSameYear(videos) {
		return videos
	}
	for _, v := range videos {
		if !eligibleVersion(folder, v.PrimaryPath()) {
			return videos
		}
	}

	sorted := make([]*Video, len(videos))
	copy(sorted, videos)
	sort.Slice(sorted, func(i, j int) bool {
		ni, nj := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if ni != nj {
			return ni < nj
		}
		return sorted[i].PrimaryPath() < sorted[j].PrimaryPath()
	})

	primary := sorted[0]
	for _, alt := range sorted[1:] {
		primary.Extras = append(primary.Extras, alt.Extras...)
		alt.Extras = nil
		primary.AlternateVersions = append(primary.AlternateVersions, alt)
	}
	return []*Video{primary}
}

// eligibleVersion reports whether a file can be an alternate version
// inside the named folder. The file name must start with the folder name;
// what remains must be empty or led by a space or dash, and must not
// carry an episode pattern ("Show S01E01" inside folder "Show" is an
// episode, not a version of "Show").
func eligibleVersion(folder, path string) bool {
	base := trimExt(filepath.Base(path))
	if len(base) < len(folder) {
		return false
	}
	if !strings.EqualFold(base[:len(folder)], folder) {
		return false
	}

	suffix := base[len(folder):]
	if suffix == "" {
		return true
	}
	if suffix[0] != ' ' && suffix[0] != '-' {
		return false
	}
	return !ContainsEpisodePattern(suffix)
}

// haveSameYear reports whether every video carries the same year value.
// An unset year counts as a value of its own, so {2020, unset} differs.
func haveSameYear(videos []*Video) bool {
	if len(videos) < 2 {
		return true
	}
	first := videos[0].Year
	for _, v := range videos[1:] {
		if v.Year != first {
			return false
		}
	}
	return true
}
