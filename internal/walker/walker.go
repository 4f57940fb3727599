// Package walker implements the breadth-first, non-symlink-following
// directory enumeration described by the Directory Walker component.
package walker

import (
	"os"
	"path/filepath"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

// PermissionPolicy controls what happens when a directory cannot be read.
type PermissionPolicy int

const (
	// SkipSubtree silently skips an unreadable directory and continues
	// (the default, per the design).
	SkipSubtree PermissionPolicy = iota
	// Fatal propagates a PermissionDenied error and aborts the walk.
	Fatal
)

// Options configures a single walk.
type Options struct {
	PermissionPolicy PermissionPolicy
}

// queueEntry is one directory awaiting expansion, tracked in the explicit
// FIFO queue that gives the walker its breadth-first order and its
// non-blocking queue pop (an in-memory slice, not a channel).
type queueEntry struct {
	path string
}

// Walk enumerates every regular file strictly below root, breadth-first,
// never descending into a symlinked directory. It returns eagerly
// collected results plus the first error encountered: nil on success; a
// permission error only if opts.PermissionPolicy is Fatal; any other
// directory-read or stat failure under either policy.
func Walk(root string, opts Options) ([]record.FileRecord, error) {
	var out []record.FileRecord

	queue := []queueEntry{{path: root}}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir.path)
		if err != nil {
			if os.IsPermission(err) {
				if opts.PermissionPolicy == Fatal {
					return out, corerr.Wrap(corerr.KindPermissionDenied, dir.path, err)
				}
				continue
			}
			return out, corerr.Wrap(corerr.KindPermissionDenied, dir.path, err)
		}

		for _, entry := range entries {
			full := filepath.Join(dir.path, entry.Name())

			if entry.Type()&os.ModeSymlink != 0 {
				// Never follow symlinks, directory or otherwise: treat a
				// symlinked directory as opaque, a symlinked file is
				// skipped too since FileRecord models regular files only.
				continue
			}

			if entry.IsDir() {
				queue = append(queue, queueEntry{path: full})
				continue
			}

			info, err := entry.Info()
			if err != nil {
				if os.IsPermission(err) {
					if opts.PermissionPolicy == Fatal {
						return out, corerr.Wrap(corerr.KindPermissionDenied, full, err)
					}
					continue
				}
				return out, corerr.Wrap(corerr.KindPermissionDenied, full, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}

			out = append(out, record.FileRecord{
				Path:  full,
				Size:  uint64(info.Size()),
				Name:  entry.Name(),
				MTime: float64(info.ModTime().UnixNano()) / 1e9,
				CTime: ctimeOf(info),
			})
		}
	}

	return out, nil
}
