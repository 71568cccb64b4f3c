package naming

import (
	"path/filepath"
	"strings"

	"media-catalog/internal/catalog"
)

// extraRule matches one extra keyword, either as the whole file name or
// as a suffix behind a separator ("movie-trailer", "movie.sample").
type extraRule struct {
	keyword string
	kind    catalog.ExtraKind
}

var extraRules = []extraRule{
	{"trailer", catalog.ExtraTrailer},
	{"sample", catalog.ExtraSample},
	{"scene", catalog.ExtraScene},
	{"clip", catalog.ExtraScene},
	{"deletedscene", catalog.ExtraDeletedScene},
	{"deleted", catalog.ExtraDeletedScene},
	{"behindthescenes", catalog.ExtraBehindTheScenes},
	{"interview", catalog.ExtraInterview},
	{"featurette", catalog.ExtraFeaturette},
	{"short", catalog.ExtraShort},
}

var extraSeparators = []byte{' ', '.', '_', '-'}

// extraFolders maps dedicated extras directory names to the kind
// assigned to every video inside them.
var extraFolders = map[string]catalog.ExtraKind{
	"trailers":          catalog.ExtraTrailer,
	"behind the scenes": catalog.ExtraBehindTheScenes,
	"deleted scenes":    catalog.ExtraDeletedScene,
	"interviews":        catalog.ExtraInterview,
	"scenes":            catalog.ExtraScene,
	"samples":           catalog.ExtraSample,
	"shorts":            catalog.ExtraShort,
	"featurettes":       catalog.ExtraFeaturette,
	"extras":            catalog.ExtraUnknown,
	"other":             catalog.ExtraUnknown,
}

// FileExtraKind classifies a video file as an extra from its name alone.
// A file qualifies when its base name equals an extra keyword or ends
// with a separator plus keyword.
func FileExtraKind(fileName string) (catalog.ExtraKind, bool) {
	base := strings.ToLower(trimExt(filepath.Base(fileName)))
	for _, rule := range extraRules {
		if base == rule.keyword {
			return rule.kind, true
		}
		for _, sep := range extraSeparators {
			if strings.HasSuffix(base, string(sep)+rule.keyword) {
				return rule.kind, true
			}
		}
	}
	return "", false
}

// FolderExtraKind classifies a directory as a dedicated extras folder.
func FolderExtraKind(dirName string) (catalog.ExtraKind, bool) {
	kind, ok := extraFolders[strings.ToLower(strings.TrimSpace(dirName))]
	return kind, ok
}
