package images

import (
	"path/filepath"
	"strings"

	"media-catalog/internal/fsops"
)

// Type classifies a piece of local artwork.
type Type string

const (
	TypePrimary  Type = "primary"
	TypeBackdrop Type = "backdrop"
	TypeBanner   Type = "banner"
	TypeLogo     Type = "logo"
	TypeThumb    Type = "thumb"
)

// Info is one discovered artwork file. Width and Height are zero until
// the file has been probed.
type Info struct {
	Path   string `json:"path"`
	Type   Type   `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".tbn":  true,
}

// Artwork base names per type. Numbered variants ("backdrop2",
// "fanart-1") count too.
var artworkNames = []struct {
	name string
	typ  Type
}{
	{"poster", TypePrimary},
	{"folder", TypePrimary},
	{"cover", TypePrimary},
	{"default", TypePrimary},
	{"movie", TypePrimary},
	{"backdrop", TypeBackdrop},
	{"fanart", TypeBackdrop},
	{"background", TypeBackdrop},
	{"art", TypeBackdrop},
	{"banner", TypeBanner},
	{"logo", TypeLogo},
	{"clearlogo", TypeLogo},
	{"thumb", TypeThumb},
	{"landscape", TypeThumb},
}

// Dedicated artwork directories and the type assigned to every image
// inside them.
var artworkDirs = map[string]Type{
	"extrafanart": TypeBackdrop,
	"extrathumbs": TypeThumb,
	"backdrops":   TypeBackdrop,
}

// IsImageFile reports whether a name carries an image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// FindArtwork scans a folder's entries for artwork belonging to the
// folder itself. videoBase, when non-empty, additionally matches
// "<base>-poster.jpg" style names for the folder's main video.
func FindArtwork(entries []fsops.Entry, videoBase string) []Info {
	found := make([]Info, 0)
	for _, e := range entries {
		if e.IsDir || !IsImageFile(e.Name) {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(e.Name, filepath.Ext(e.Name)))

		if typ, ok := classifyBase(base); ok {
			found = append(found, Info{Path: e.Path, Type: typ})
			continue
		}
		if videoBase != "" {
			if typ, ok := classifyVideoSuffix(base, strings.ToLower(videoBase)); ok {
				found = append(found, Info{Path: e.Path, Type: typ})
			}
		}
	}
	return found
}

// ArtworkDirType reports whether a directory name is a dedicated
// artwork directory and which type its images get.
func ArtworkDirType(dirName string) (Type, bool) {
	typ, ok := artworkDirs[strings.ToLower(dirName)]
	return typ, ok
}

// classifyBase matches a bare artwork name, allowing a numeric tail
// ("backdrop", "backdrop2", "fanart-1").
func classifyBase(base string) (Type, bool) {
	for _, a := range artworkNames {
		if base == a.name {
			return a.typ, true
		}
		if strings.HasPrefix(base, a.name) && numericTail(base[len(a.name):]) {
			return a.typ, true
		}
	}
	return "", false
}

// classifyVideoSuffix matches "<video>-poster" style names.
func classifyVideoSuffix(base, videoBase string) (Type, bool) {
	if !strings.HasPrefix(base, videoBase) {
		return "", false
	}
	rest := base[len(videoBase):]
	if rest == "" || (rest[0] != '-' && rest[0] != '.' && rest[0] != '_') {
		return "", false
	}
	rest = rest[1:]
	for _, a := range artworkNames {
		if rest == a.name {
			return a.typ, true
		}
	}
	return "", false
}

// numericTail accepts "", "2", "-3", "_10".
func numericTail(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '-' || s[0] == '_' {
		s = s[1:]
	}
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
