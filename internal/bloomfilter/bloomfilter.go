// Package bloomfilter implements the Bloom Prefilter: three Bloom filters
// built over one side of the comparison (size, name, mtime), used to
// cheaply retain the other side's entries whose every enabled attribute
// hits. Built on github.com/bits-and-blooms/bloom/v3 (grounded on
// TheEntropyCollective-noisefs, the pack's content-dedup system that
// reaches for the same library for the same purpose).
package bloomfilter

import (
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

// FalsePositiveRate is the design parameter for every filter built here.
const FalsePositiveRate = 0.05

// Filters holds the (up to) three Bloom filters built over one side.
// A nil field means that attribute isn't checked and is therefore always
// "present" for the purposes of Accepts.
type Filters struct {
	size *bloom.BloomFilter
	name *bloom.BloomFilter
	mdate *bloom.BloomFilter
}

// Build constructs Filters over side, one per enabled attribute. size is
// always checked; name and mdate are built only if not in the ignore set.
func Build(side []record.FileRecord, ignore ignoreset.Set) *Filters {
	n := uint(len(side))
	if n == 0 {
		n = 1
	}

	f := &Filters{size: bloom.NewWithEstimates(n, FalsePositiveRate)}
	if ignore.CheckFilename() {
		f.name = bloom.NewWithEstimates(n, FalsePositiveRate)
	}
	if ignore.CheckMDate() {
		f.mdate = bloom.NewWithEstimates(n, FalsePositiveRate)
	}

	for _, r := range side {
		f.size.AddString(sizeKey(r.Size))
		if f.name != nil {
			f.name.AddString(r.Name)
		}
		if f.mdate != nil {
			f.mdate.AddString(mdateKey(r.MTime))
		}
	}
	return f
}

// Accepts reports whether r's every enabled attribute is present in the
// corresponding filter. False positives are expected and tolerated; false
// negatives are impossible by Bloom construction.
func (f *Filters) Accepts(r record.FileRecord) bool {
	if !f.size.TestString(sizeKey(r.Size)) {
		return false
	}
	if f.name != nil && !f.name.TestString(r.Name) {
		return false
	}
	if f.mdate != nil && !f.mdate.TestString(mdateKey(r.MTime)) {
		return false
	}
	return true
}

// Filter returns the subset of side accepted by f.
func (f *Filters) Filter(side []record.FileRecord) []record.FileRecord {
	out := make([]record.FileRecord, 0, len(side))
	for _, r := range side {
		if f.Accepts(r) {
			out = append(out, r)
		}
	}
	return out
}

func sizeKey(size uint64) string {
	return strconv.FormatUint(size, 10)
}

func mdateKey(mtime float64) string {
	return strconv.FormatFloat(mtime, 'f', -1, 64)
}
