// Package keybuilder implements the deterministic FileKey: digest
// [+ filename] [+ mtime], joined with an unambiguous separator and
// controlled by the configured ignore set.
package keybuilder

import (
	"strconv"
	"strings"

	"github.com/niradar/duplicate-files-in-folders/internal/hashcache"
	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

// separator joins key parts. It is not a character that can appear in a
// hex digest, a formatted float, or (after path.Base) most filenames,
// and collisions across differently-shaped keys are harmless: two
// records only compare equal if every part matches, regardless of how
// the joined string happens to be split.
const separator = "_"

// Key builds the duplicate key for r, consulting cache for the digest.
func Key(r record.FileRecord, cache *hashcache.Cache, ignore ignoreset.Set) (string, error) {
	digest, err := cache.Get(r.Path)
	if err != nil {
		return "", err
	}

	parts := []string{digest}
	if ignore.CheckFilename() {
		parts = append(parts, r.Name)
	}
	if ignore.CheckMDate() {
		parts = append(parts, strconv.FormatFloat(r.MTime, 'f', -1, 64))
	}
	return strings.Join(parts, separator), nil
}
