// Package csvexport writes the duplicate report as CSV: one row per
// duplicate file, columns group_id, path, size, modified_time_iso8601.
// This is the "external collaborator" format from the design's §6 -
// a trivial consumer of the resolver's duplicate groups, implemented
// with stdlib encoding/csv as every CSV writer in the retrieval pack does
// for output this small.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/niradar/duplicate-files-in-folders/internal/record"
	"github.com/niradar/duplicate-files-in-folders/internal/resolver"
)

// Write emits the CSV report for groups to w. group_id increments once
// per DuplicateGroup and labels both the scan and reference rows of that
// group.
func Write(w io.Writer, groups []resolver.DuplicateGroup) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"group_id", "path", "size", "modified_time_iso8601"}); err != nil {
		return err
	}

	for i, g := range groups {
		groupID := strconv.Itoa(i + 1)
		for _, side := range [][]record.FileRecord{g.Scan, g.Ref} {
			for _, r := range side {
				row := []string{
					groupID,
					r.Path,
					strconv.FormatUint(r.Size, 10),
					isoTime(r.MTime),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func isoTime(mtime float64) string {
	sec := int64(mtime)
	nsec := int64((mtime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339)
}
