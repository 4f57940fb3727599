// Package ignoreset implements the small "ignore_diff" flag set:
// {filename, mdate} plus a none/empty sentinel. Per the design notes,
// there is no string parsing past the CLI boundary — config.ParseIgnoreDiff does
// that once and everything downstream consumes this typed set.
package ignoreset

// Set names the attributes excluded from the duplicate key and from the
// Bloom prefilter's enabled-attribute check. Size is always checked (see
// SPEC_FULL.md's recorded decision on the open question) and is therefore
// not representable here.
type Set struct {
	Filename bool
	MDate    bool
}

// None is the empty set: every attribute is checked.
var None = Set{}

// CheckFilename reports whether filename equality should be required.
func (s Set) CheckFilename() bool { return !s.Filename }

// CheckMDate reports whether mtime equality should be required.
func (s Set) CheckMDate() bool { return !s.MDate }
