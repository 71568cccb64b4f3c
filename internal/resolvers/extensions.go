package resolvers

import (
	"path/filepath"
	"strings"
)

// VideoExtensions maps file extensions to whether they are treated as video.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
	".m2ts": true,
	".vob":  true,
	".ogv":  true,
}

// AudioExtensions maps file extensions to whether they are treated as audio.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".m4b":  true,
	".aac":  true,
	".ogg":  true,
	".oga":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
	".ape":  true,
}

// IsVideoFile reports whether a file name has a video extension.
func IsVideoFile(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsAudioFile reports whether a file name has an audio extension.
func IsAudioFile(name string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(name))]
}
