// Package orchestrator wires the Path Policy, Hash Cache, Walker,
// Attribute Filter, Duplicate Resolver, Action Executor and File Mover
// together into the run sequence described by the design's Orchestrator
// component.
package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/niradar/duplicate-files-in-folders/internal/config"
	"github.com/niradar/duplicate-files-in-folders/internal/csvexport"
	"github.com/niradar/duplicate-files-in-folders/internal/executor"
	"github.com/niradar/duplicate-files-in-folders/internal/filter"
	"github.com/niradar/duplicate-files-in-folders/internal/hashcache"
	"github.com/niradar/duplicate-files-in-folders/internal/logging"
	"github.com/niradar/duplicate-files-in-folders/internal/mover"
	"github.com/niradar/duplicate-files-in-folders/internal/pathpolicy"
	"github.com/niradar/duplicate-files-in-folders/internal/resolver"
	"github.com/niradar/duplicate-files-in-folders/internal/walker"
)

// Summary reports what a run did, for the CLI's human-readable output
// (out of scope for the core per §1, but the core returns the numbers
// that feed it).
type Summary struct {
	GroupCount     int
	FilesMoved     int
	FilesCreated   int
	EmptyDirsSwept int
	ScanSeen       int
	ReferenceSeen  int
	BytesScanned   uint64
	BytesReference uint64
}

// HumanBytesScanned renders BytesScanned the way an operator reads a size,
// e.g. "4.2 MB" instead of a raw byte count.
func (s Summary) HumanBytesScanned() string {
	return humanize.Bytes(s.BytesScanned)
}

// HumanBytesReference renders BytesReference the same way.
func (s Summary) HumanBytesReference() string {
	return humanize.Bytes(s.BytesReference)
}

// Run executes one full orchestration sequence per the design's §4.10:
// init Path Policy, init Hash Cache, walk + filter both trees, resolve
// duplicates, then either move duplicates or write a CSV report, and
// finally save the Hash Cache.
func Run(opts config.Options, log *logging.Logger, cacheDir string) (Summary, error) {
	var summary Summary

	if err := opts.Validate(); err != nil {
		return summary, err
	}

	policy := pathpolicy.New()
	if err := policy.AddProtected(opts.ReferenceDir); err != nil {
		return summary, err
	}
	if err := policy.AddAllowed(opts.ScanDir); err != nil {
		return summary, err
	}
	if err := policy.AddAllowed(opts.MoveTo); err != nil {
		return summary, err
	}

	mode := hashcache.ModePartial
	if opts.FullHash {
		mode = hashcache.ModeFull
	}

	cache, err := hashcache.New(hashcache.Options{
		ReferenceRoot: opts.ReferenceDir,
		StoreDir:      cacheDir,
		Mode:          mode,
		Algorithm:     hashcache.SHA256,
	})
	if err != nil {
		return summary, err
	}
	if opts.ClearCache {
		cache.Clear()
	}

	m := mover.New(policy, log, !opts.Run)

	scanRecords, err := walker.Walk(opts.ScanDir, walker.Options{})
	if err != nil {
		return summary, err
	}
	refRecords, err := walker.Walk(opts.ReferenceDir, walker.Options{})
	if err != nil {
		return summary, err
	}
	summary.ScanSeen = len(scanRecords)
	summary.ReferenceSeen = len(refRecords)

	attrOpts := filter.Options{
		MinSize:   opts.MinSize,
		MaxSize:   opts.MaxSize,
		Whitelist: opts.WhitelistExt,
		Blacklist: opts.BlacklistExt,
	}
	scanRecords = filter.Apply(scanRecords, attrOpts)
	refRecords = filter.Apply(refRecords, attrOpts)

	for _, r := range scanRecords {
		summary.BytesScanned += r.Size
	}
	for _, r := range refRecords {
		summary.BytesReference += r.Size
	}

	log.Infof("walked %d scan candidate(s, %s), %d reference candidate(s, %s) after filtering",
		len(scanRecords), humanize.Bytes(summary.BytesScanned), len(refRecords), humanize.Bytes(summary.BytesReference))

	result, err := resolver.Resolve(scanRecords, refRecords, opts.Ignore, cache)
	if err != nil {
		return summary, err
	}
	summary.GroupCount = len(result.Groups)

	action := opts.Action
	if action == "" {
		action = config.ActionMoveDuplicates
	}

	switch action {
	case config.ActionMoveDuplicates:
		counts, err := executor.Run(result.Groups, m, executor.Options{
			ScanRoot:      opts.ScanDir,
			ReferenceRoot: opts.ReferenceDir,
			MoveTo:        opts.MoveTo,
			CopyToAll:     opts.CopyToAll,
			KeepStructure: opts.KeepStructure,
			Ignore:        opts.Ignore,
		})
		if err != nil {
			return summary, err
		}
		summary.FilesMoved = counts.FilesMoved
		summary.FilesCreated = counts.FilesCreated

		if !opts.KeepEmptyFolders {
			swept, err := m.RemoveEmptyDirsUnder(opts.ScanDir)
			if err != nil {
				return summary, err
			}
			summary.EmptyDirsSwept = swept
		}

	case config.ActionCreateCSV:
		dst := opts.CSVOutput
		if dst == "" {
			dst = filepath.Join(opts.MoveTo, "duplicates.csv")
		}

		err := m.WithElevatedMode(func() error {
			if err := m.MakeDirs(opts.MoveTo); err != nil {
				return err
			}
			f, err := os.Create(dst)
			if err != nil {
				return err
			}
			defer f.Close()
			return csvexport.Write(f, result.Groups)
		})
		if err != nil {
			return summary, err
		}
	}

	if err := cache.Save(); err != nil {
		return summary, err
	}

	return summary, nil
}
