package resolvers

import (
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/naming"
	"media-catalog/internal/options"
	"media-catalog/internal/probe"
)

// EpisodeResolver resolves video files inside a television tree into
// episodes. Numbering comes from the file name first, then from the
// library's absolute-numbering opt-in, then from embedded media tags
// when a prober is available. A file whose season cannot be determined
// anywhere is assumed to belong to season 1; the common single-season
// layout drops episodes straight into the series folder.
type EpisodeResolver struct {
	// Prober, when set, is consulted for embedded season and episode
	// tags on files whose names carry no usable numbering.
	Prober probe.Prober
}

func (*EpisodeResolver) Name() string  { return "episode" }
func (*EpisodeResolver) Priority() int { return 4 }

func (e *EpisodeResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	if rctx.IsDir || !IsVideoFile(rctx.Name) {
		return nil, nil
	}
	if !inSeriesTree(rctx) {
		return nil, nil
	}

	name, year := naming.ParseFileName(rctx.Name)
	item := &catalog.Item{
		Kind: catalog.KindEpisode,
		Name: name,
		Year: year,
		Path: rctx.Path,
	}

	ep, ok := naming.ParseEpisode(rctx.Name)
	if ok && ep.IsByDate {
		// Date naming and index naming are mutually exclusive; a dated
		// episode carries no season or episode numbers.
		item.PremiereDate = time.Date(ep.Year, time.Month(ep.Month), ep.Day, 0, 0, 0, 0, time.UTC)
		item.Year = ep.Year
		return item, nil
	}
	if ok {
		item.IndexNumber = ep.Episode
		if ep.EndEpisode > ep.Episode {
			item.EndIndexNumber = ep.EndEpisode
		}
		item.ParentIndexNumber = e.seasonNumber(rctx, ep.Season)
		return item, nil
	}

	if lib := rctx.Library; lib != nil && lib.AbsoluteEpisodeNumbers {
		if abs, ok := naming.ParseAbsoluteEpisode(rctx.Name); ok {
			item.AbsoluteIndex = abs
			return item, nil
		}
	}

	if e.Prober != nil {
		info, err := e.Prober.Probe(rctx.Ctx, rctx.Path)
		if err != nil {
			logging.Debug("Probing %s for episode numbering: %v", rctx.Path, err)
		} else if season, episode, ok := probe.EpisodeNumbers(info); ok {
			item.IndexNumber = episode
			item.ParentIndexNumber = e.seasonNumber(rctx, season)
			return item, nil
		}
	}

	item.ParentIndexNumber = e.seasonNumber(rctx, -1)
	return item, nil
}

// seasonNumber picks the episode's season: the parsed number when the
// file name carried one, else the parent folder's number, else 1.
func (e *EpisodeResolver) seasonNumber(rctx *Context, parsed int) int {
	if parsed >= 0 {
		return parsed
	}
	if p := rctx.Parent; p != nil {
		if p.Kind == catalog.KindSeason {
			return p.IndexNumber
		}
		if num, ok := naming.ParseSeasonFolder(p.Name); ok {
			return num
		}
	}
	return 1
}

// inSeriesTree reports whether the entry sits where episodes live:
// under a series or season item, or nested deeper inside a television
// library. Files directly at the collection root have no series and
// fall through to the generic video resolver.
func inSeriesTree(rctx *Context) bool {
	p := rctx.Parent
	if p == nil || p.Kind == catalog.KindCollection {
		return false
	}
	if p.Kind == catalog.KindSeries || p.Kind == catalog.KindSeason {
		return true
	}
	return rctx.Hint == options.ContentTVShows
}
