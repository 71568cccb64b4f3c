package naming

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Stack markers: cd/dvd/part/pt/disc/disk followed by a number or a
// single letter a-d. The title is everything before the first marker.
var (
	stackNumberRegex = regexp.MustCompile(`(?i)^(?P<title>.*?)[ _.-]*(?:cd|dvd|part|pt|dis[ck])[ _.-]*(?P<num>[0-9]+)(?P<suffix>.*)$`)
	stackAlphaRegex  = regexp.MustCompile(`(?i)^(?P<title>.*?)[ _.-]*(?:cd|dvd|part|pt|dis[ck])[ _.-]*(?P<alpha>[a-d])(?P<suffix>.*)$`)
)

// Stack is one multi-part video: two or more files sharing a name and
// differing only in their part marker.
type Stack struct {
	// Name is the shared prefix with part markers and separators
	// removed. Empty when the files are named by marker alone
	// ("cd1.avi"); callers substitute the folder name.
	Name string
	// Files holds the part paths in play order.
	Files []string
}

type stackKey struct {
	alpha  bool
	title  string
	suffix string
}

type stackCand struct {
	path  string
	order int
	index int // position in the input, for stable dissolution
}

// ResolveStacks groups a folder's video files into multi-part stacks.
// Files whose names carry no part marker, and candidate groups with a
// single member, are returned as leftover singles in input order.
func ResolveStacks(paths []string) ([]Stack, []string) {
	groups := make(map[stackKey][]stackCand)
	keyOrder := make([]stackKey, 0)
	unmatched := make([]stackCand, 0, len(paths))

	for i, p := range paths {
		base := trimExt(filepath.Base(p))

		if m := stackNumberRegex.FindStringSubmatch(base); m != nil {
			num, err := strconv.Atoi(m[2])
			if err == nil {
				key := stackKey{
					title:  strings.ToLower(trimSeparators(m[1])),
					suffix: strings.ToLower(trimSeparators(m[3])),
				}
				if _, ok := groups[key]; !ok {
					keyOrder = append(keyOrder, key)
				}
				groups[key] = append(groups[key], stackCand{path: p, order: num, index: i})
				continue
			}
		}

		if m := stackAlphaRegex.FindStringSubmatch(base); m != nil {
			key := stackKey{
				alpha:  true,
				title:  strings.ToLower(trimSeparators(m[1])),
				suffix: strings.ToLower(trimSeparators(m[3])),
			}
			if _, ok := groups[key]; !ok {
				keyOrder = append(keyOrder, key)
			}
			letter := strings.ToLower(m[2])
			groups[key] = append(groups[key], stackCand{path: p, order: int(letter[0]-'a') + 1, index: i})
			continue
		}

		unmatched = append(unmatched, stackCand{path: p, index: i})
	}

	stacks := make([]Stack, 0, len(groups))
	for _, key := range keyOrder {
		cands := groups[key]
		if len(cands) < 2 {
			// A lone part marker is not a stack
			unmatched = append(unmatched, cands...)
			continue
		}

		sort.Slice(cands, func(i, j int) bool {
			if cands[i].order != cands[j].order {
				return cands[i].order < cands[j].order
			}
			return cands[i].path < cands[j].path
		})

		files := make([]string, len(cands))
		for i, c := range cands {
			files[i] = c.path
		}
		stacks = append(stacks, Stack{
			Name:  stackName(cands[0].path),
			Files: files,
		})
	}

	sort.Slice(unmatched, func(i, j int) bool { return unmatched[i].index < unmatched[j].index })
	singles := make([]string, len(unmatched))
	for i, c := range unmatched {
		singles[i] = c.path
	}
	return stacks, singles
}

// stackName recovers the display prefix from a part path, preserving the
// original casing the lowercased group key loses.
func stackName(path string) string {
	base := trimExt(filepath.Base(path))
	if m := stackNumberRegex.FindStringSubmatch(base); m != nil {
		return trimSeparators(m[1])
	}
	if m := stackAlphaRegex.FindStringSubmatch(base); m != nil {
		return trimSeparators(m[1])
	}
	return trimSeparators(base)
}
