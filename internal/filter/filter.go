// Package filter implements the Attribute Filter: size bounds combined
// with a whitelist or blacklist of extensions.
package filter

import (
	"strings"

	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

// Options configures one Attribute Filter pass. Whitelist and Blacklist
// are mutually exclusive (enforced at configuration time, not here).
type Options struct {
	MinSize   uint64 // 0 means unbounded
	MaxSize   uint64 // 0 means unbounded
	Whitelist map[string]struct{}
	Blacklist map[string]struct{}
}

// extension returns the case-sensitive extension used for whitelist/
// blacklist comparison: everything after the last dot, or the whole name
// if no dot is present.
func extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name
	}
	return name[idx+1:]
}

// Keep reports whether r passes the filter.
func (o Options) Keep(r record.FileRecord) bool {
	if o.MinSize != 0 && r.Size < o.MinSize {
		return false
	}
	if o.MaxSize != 0 && r.Size > o.MaxSize {
		return false
	}

	ext := extension(r.Name)
	if len(o.Whitelist) > 0 {
		if _, ok := o.Whitelist[ext]; !ok {
			return false
		}
	}
	if len(o.Blacklist) > 0 {
		if _, ok := o.Blacklist[ext]; ok {
			return false
		}
	}
	return true
}

// Apply returns a new slice holding the records that pass the filter;
// records itself is not modified.
func Apply(records []record.FileRecord, o Options) []record.FileRecord {
	out := make([]record.FileRecord, 0, len(records))
	for _, r := range records {
		if o.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
