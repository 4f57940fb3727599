// Package executor implements the Action Executor: consumes resolved
// duplicate groups and performs the move/copy policy, then quarantines
// any scan duplicates left behind by the main pass.
package executor

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/mover"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
	"github.com/niradar/duplicate-files-in-folders/internal/resolver"
)

// Options configures one Action Executor run.
type Options struct {
	ScanRoot      string
	ReferenceRoot string
	MoveTo        string
	CopyToAll     bool
	KeepStructure bool
	Ignore        ignoreset.Set
}

// Counts reports the effects of a run.
type Counts struct {
	FilesMoved   int
	FilesCreated int
}

// Run executes the main pass over groups, then the quarantine pass.
func Run(groups []resolver.DuplicateGroup, m *mover.Mover, opts Options) (Counts, error) {
	var counts Counts

	quarantineCandidates := map[string]struct{}{}

	for _, g := range groups {
		handled, err := runGroup(g, m, opts, &counts)
		if err != nil {
			return counts, err
		}
		for _, s := range g.Scan {
			if _, done := handled[s.Path]; done {
				continue
			}
			quarantineCandidates[s.Path] = struct{}{}
		}
	}

	if err := cleanScanDuplications(quarantineCandidates, m, opts, &counts); err != nil {
		return counts, err
	}

	return counts, nil
}

// runGroup performs the main-pass move/copy for one duplicate group and
// returns the set of scan paths it moved out of the scan tree. Tracking
// this explicitly - rather than re-checking which scan files still exist
// on disk - keeps the quarantine pass correct under dry-run, where a
// "moved" file is never actually removed.
func runGroup(g resolver.DuplicateGroup, m *mover.Mover, opts Options, counts *Counts) (map[string]struct{}, error) {
	scan := append([]record.FileRecord(nil), g.Scan...)
	ref := append([]record.FileRecord(nil), g.Ref...)
	sort.Sort(record.Records(scan))
	sort.Sort(record.Records(ref))

	handled := map[string]struct{}{}

	if !opts.CopyToAll {
		dst := destination(ref[0], scan[0], opts)
		if _, err := m.Move(scan[0].Path, dst); err != nil {
			return nil, err
		}
		counts.FilesMoved++
		handled[scan[0].Path] = struct{}{}
		return handled, nil
	}

	// Copy-to-all: cover R-S missing scan duplicates by copying the
	// first scan file to the extra reference-derived destinations, then
	// move each remaining scan record into one of the rest, pairing
	// positionally after the lexicographic sort above.
	r, s := len(ref), len(scan)

	refIdx := 0
	if r > s {
		for i := 0; i < r-s; i++ {
			dst := destination(ref[refIdx], scan[0], opts)
			if _, err := m.CopyPreservingMetadata(scan[0].Path, dst); err != nil {
				return nil, err
			}
			counts.FilesCreated++
			refIdx++
		}
	}

	for i := 0; i < s && refIdx < r; i, refIdx = i+1, refIdx+1 {
		dst := destination(ref[refIdx], scan[i], opts)
		if _, err := m.Move(scan[i].Path, dst); err != nil {
			return nil, err
		}
		counts.FilesMoved++
		handled[scan[i].Path] = struct{}{}
	}

	return handled, nil
}

// destination applies the destination rule: reference-mirrored by
// default, scan-mirrored under keep_structure.
func destination(ref, scan record.FileRecord, opts Options) string {
	if opts.KeepStructure {
		rel, _ := filepath.Rel(opts.ScanRoot, scan.Path)
		return filepath.Join(opts.MoveTo, rel)
	}
	rel, _ := filepath.Rel(opts.ReferenceRoot, ref.Path)
	return filepath.Join(opts.MoveTo, rel)
}

// cleanScanDuplications moves every scan record that still exists on
// disk and appeared in some group into
// move_to/<basename(scan_root)>_dups/relpath(scan_file, scan_root),
// sorted by (depth, mtime) when mdate is checked, or (depth, path) when
// mdate is in the ignore set - this spec's recorded decision for the
// tiebreak the source left ambiguous.
func cleanScanDuplications(candidates map[string]struct{}, m *mover.Mover, opts Options, counts *Counts) error {
	remaining := make([]record.FileRecord, 0, len(candidates))
	for path := range candidates {
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		remaining = append(remaining, record.FileRecord{
			Path:  path,
			Name:  filepath.Base(path),
			Size:  uint64(info.Size()),
			MTime: float64(info.ModTime().UnixNano()) / 1e9,
		})
	}

	sort.Slice(remaining, func(i, j int) bool {
		di, dj := pathDepth(opts.ScanRoot, remaining[i].Path), pathDepth(opts.ScanRoot, remaining[j].Path)
		if di != dj {
			return di < dj
		}
		if opts.Ignore.CheckMDate() {
			if remaining[i].MTime != remaining[j].MTime {
				return remaining[i].MTime < remaining[j].MTime
			}
		}
		return remaining[i].Path < remaining[j].Path
	})

	dupsDirName := filepath.Base(opts.ScanRoot) + "_dups"
	for _, r := range remaining {
		rel, err := filepath.Rel(opts.ScanRoot, r.Path)
		if err != nil {
			return err
		}
		dst := filepath.Join(opts.MoveTo, dupsDirName, rel)
		if _, err := m.Move(r.Path, dst); err != nil {
			return err
		}
		counts.FilesMoved++
	}
	return nil
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	if rel == "." {
		return 0
	}
	count := 0
	for _, r := range rel {
		if r == filepath.Separator {
			count++
		}
	}
	return count
}
