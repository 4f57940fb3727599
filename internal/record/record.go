// Package record defines the FileRecord value type shared by every stage
// of the pipeline: walker, filter, bloom prefilter, key builder, resolver
// and action executor.
package record

// FileRecord is immutable after creation. It is produced by the walker,
// threaded through every later stage unmodified, and never mutated.
type FileRecord struct {
	Path string // walk root joined with the entry's relative path; absolute only when the root is
	Size uint64 // byte size
	Name string // final path component
	MTime float64 // modification time, seconds since epoch
	CTime float64 // creation/status-change time, seconds since epoch
}

// Records is a slice of FileRecord with the sort helpers the resolver and
// executor need (lexicographic order by Path).
type Records []FileRecord

func (r Records) Len() int           { return len(r) }
func (r Records) Less(i, j int) bool { return r[i].Path < r[j].Path }
func (r Records) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
