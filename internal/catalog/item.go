package catalog

import (
	"time"
)

// Kind identifies what a catalog item is. It drives resolver selection,
// cache admission, and repository queries.
type Kind string

const (
	// KindFolder is a plain directory with no recognized media shape
	KindFolder Kind = "folder"
	// KindCollection is a top-level library folder (movies, tvshows, music)
	KindCollection Kind = "collection"
	// KindSeries is a television series directory
	KindSeries Kind = "series"
	// KindSeason is a season directory inside a series
	KindSeason Kind = "season"
	// KindMovie is a movie video
	KindMovie Kind = "movie"
	// KindEpisode is an episode video
	KindEpisode Kind = "episode"
	// KindVideo is a video that is neither a movie nor an episode
	KindVideo Kind = "video"
	// KindAudio is a music or audiobook file
	KindAudio Kind = "audio"
	// KindPlaylist is a playlist file (m3u, wpl) in a music library
	KindPlaylist Kind = "playlist"
	// KindPerson is a named aggregate (actor, director)
	KindPerson Kind = "person"
	// KindChannel is a channel-backed leaf item
	KindChannel Kind = "channel"
)

// IsFolder reports whether items of this kind own children.
func (k Kind) IsFolder() bool {
	switch k {
	case KindFolder, KindCollection, KindSeries, KindSeason:
		return true
	}
	return false
}

// IsVideo reports whether items of this kind are playable video.
func (k Kind) IsVideo() bool {
	switch k {
	case KindMovie, KindEpisode, KindVideo:
		return true
	}
	return false
}

// SourceKind records where an item came from.
type SourceKind string

const (
	// SourceLibrary marks items discovered under a physical library root
	SourceLibrary SourceKind = "library"
	// SourceChannel marks items materialized from a channel
	SourceChannel SourceKind = "channel"
)

// ExtraKind classifies supplementary videos attached to an owner item.
type ExtraKind string

const (
	ExtraTrailer         ExtraKind = "trailer"
	ExtraBehindTheScenes ExtraKind = "behindthescenes"
	ExtraDeletedScene    ExtraKind = "deletedscene"
	ExtraInterview       ExtraKind = "interview"
	ExtraScene           ExtraKind = "scene"
	ExtraSample          ExtraKind = "sample"
	ExtraFeaturette      ExtraKind = "featurette"
	ExtraShort           ExtraKind = "short"
	// ExtraUnknown is used for files swept out of a dedicated extras
	// directory whose names carry no classifying keyword.
	ExtraUnknown ExtraKind = "unknown"
)

// ImageType names the slot an artwork file fills.
type ImageType string

const (
	ImagePrimary  ImageType = "primary"
	ImageBackdrop ImageType = "backdrop"
	ImageLogo     ImageType = "logo"
	ImageBanner   ImageType = "banner"
	ImageThumb    ImageType = "thumb"
)

// ImageInfo describes one artwork file attached to an item.
type ImageInfo struct {
	Type         ImageType `json:"type"`
	Path         string    `json:"path"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	DateModified time.Time `json:"dateModified"`
}

// PersonRef links an item to a named person.
type PersonRef struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	Type string `json:"type,omitempty"`
}

// Item is one entry in the catalog. The zero value is not usable; build
// items through the resolvers or the repository.
//
// Ownership is by ID only: ChildIDs lists the children of folder kinds,
// and every child's ParentID points back at the owner. Parent access is
// always a cache/repository lookup.
type Item struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	ParentID    string     `json:"parentId,omitempty"`
	TopParentID string     `json:"topParentId,omitempty"`
	Source      SourceKind `json:"source"`

	// CollectionType is set on KindCollection items: "movies",
	// "tvshows", "music", or empty for mixed content.
	CollectionType string `json:"collectionType,omitempty"`

	Year int `json:"year,omitempty"`

	// IndexNumber is the episode number (or disc number for audio).
	IndexNumber int `json:"indexNumber,omitempty"`
	// EndIndexNumber is the last episode number for multi-episode files.
	EndIndexNumber int `json:"endIndexNumber,omitempty"`
	// ParentIndexNumber is the season number.
	ParentIndexNumber int `json:"parentIndexNumber,omitempty"`
	// AbsoluteIndex is the absolute episode number for libraries that
	// number episodes without seasons.
	AbsoluteIndex int `json:"absoluteIndex,omitempty"`
	// PremiereDate is set for date-named episodes. Date naming and
	// index naming are mutually exclusive.
	PremiereDate time.Time `json:"premiereDate,omitempty"`

	// ExtraKind and OwnerID are set on extras. An extra's lifecycle is
	// tied to its owner; OwnerID points at the item it supplements.
	ExtraKind ExtraKind `json:"extraKind,omitempty"`
	OwnerID   string    `json:"ownerId,omitempty"`

	// PartPaths holds every file of a stacked video in play order,
	// including Path itself. Empty for single-file videos.
	PartPaths []string `json:"partPaths,omitempty"`
	// AlternatePaths holds the primary path of each grouped alternate
	// version of this video.
	AlternatePaths []string `json:"alternatePaths,omitempty"`
	// ExtraIDs lists the IDs of extras owned by this item.
	ExtraIDs []string `json:"extraIds,omitempty"`
	// ChildIDs lists this folder's children in resolution order.
	// Only folder kinds carry children.
	ChildIDs []string `json:"childIds,omitempty"`

	Images []ImageInfo `json:"images,omitempty"`
	People []PersonRef `json:"people,omitempty"`

	IsVirtual bool  `json:"isVirtual,omitempty"`
	Size      int64 `json:"size,omitempty"`

	DateCreated   time.Time `json:"dateCreated"`
	DateModified  time.Time `json:"dateModified"`
	DateLastSaved time.Time `json:"dateLastSaved"`
}

// IsFolder reports whether the item owns children.
func (i *Item) IsFolder() bool {
	return i.Kind.IsFolder()
}

// AddChild appends a child ID if it is not already present.
func (i *Item) AddChild(id string) {
	for _, existing := range i.ChildIDs {
		if existing == id {
			return
		}
	}
	i.ChildIDs = append(i.ChildIDs, id)
}

// RemoveChild drops a child ID. Unknown IDs are ignored.
func (i *Item) RemoveChild(id string) {
	for n, existing := range i.ChildIDs {
		if existing == id {
			i.ChildIDs = append(i.ChildIDs[:n], i.ChildIDs[n+1:]...)
			return
		}
	}
}

// AllPaths returns every physical path backing this item: the primary
// path, stack parts, and alternate version files. Used when deleting an
// item from disk.
func (i *Item) AllPaths() []string {
	paths := make([]string, 0, 1+len(i.PartPaths)+len(i.AlternatePaths))
	seen := make(map[string]struct{}, cap(paths))
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	add(i.Path)
	for _, p := range i.PartPaths {
		add(p)
	}
	for _, p := range i.AlternatePaths {
		add(p)
	}
	return paths
}
