package catalog

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// ItemID computes the deterministic identifier for an item: the md5 hex
// digest of the kind tag concatenated with the normalized path. With
// caseSensitive false (the default for library content) the input is
// case-folded first, so "/Media/Movies" and "/media/movies" produce the
// same item.
//
// Callers must normalize the path (clean separators, no trailing slash)
// before hashing; fsops.NormalizePath does this. IDs are reproducible
// across runs and across machines that mount the same paths.
func ItemID(kind Kind, path string, caseSensitive bool) string {
	key := string(kind) + path
	if !caseSensitive {
		key = strings.ToLower(key)
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(key)))
}
