// Package mover implements the safety-constrained file mover: the
// process-wide gatekeeper that enforces the path policy on every
// mutating filesystem operation, supports dry-run with identical
// decision logic, and collision-renames on destination conflict.
package mover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
	"github.com/niradar/duplicate-files-in-folders/internal/logging"
	"github.com/niradar/duplicate-files-in-folders/internal/pathpolicy"
)

// Mover is the process-wide singleton holding the dry-run flag.
type Mover struct {
	mu     sync.Mutex
	policy *pathpolicy.Policy
	log    *logging.Logger
	dryRun bool
	now    func() time.Time
}

// New builds a Mover gated by policy, logging through log, starting in
// the given dry-run mode.
func New(policy *pathpolicy.Policy, log *logging.Logger, dryRun bool) *Mover {
	return &Mover{policy: policy, log: log, dryRun: dryRun, now: time.Now}
}

// DryRun reports the current dry-run flag.
func (m *Mover) DryRun() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dryRun
}

// WithElevatedMode temporarily forces dry-run to false around fn,
// restoring the prior value on every exit path including panics.
func (m *Mover) WithElevatedMode(fn func() error) (err error) {
	m.mu.Lock()
	prior := m.dryRun
	m.dryRun = false
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.dryRun = prior
		m.mu.Unlock()
	}()

	return fn()
}

func (m *Mover) checkPermitted(kind string, paths ...string) error {
	for _, p := range paths {
		if !m.policy.IsPermitted(p) {
			return corerr.New(corerr.KindProtectedPath, p, fmt.Sprintf("%s denied: path is not permitted to mutate", kind), nil)
		}
	}
	return nil
}

// resolveCollision returns a destination path guaranteed not to exist at
// call time, renaming by splitting at the last extension and appending
// "_<unix-seconds>" to the stem, recursing until the candidate is free.
func (m *Mover) resolveCollision(dst string) string {
	for {
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			return dst
		}

		dir := filepath.Dir(dst)
		base := filepath.Base(dst)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		suffix := strconv.FormatInt(m.now().Unix(), 10)

		dst = filepath.Join(dir, stem+"_"+suffix+ext)
	}
}

// MakeDirs creates path and any missing parents.
func (m *Mover) MakeDirs(path string) error {
	if err := m.checkPermitted("make_dirs", path); err != nil {
		return err
	}
	if m.DryRun() {
		m.log.Debugf("dry-run: would create directory %s", path)
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// Move relocates src to dst, requiring both endpoints be permitted,
// collision-renaming dst if necessary, creating dst's parent as needed.
// Returns the actual destination used.
func (m *Mover) Move(src, dst string) (string, error) {
	if err := m.checkPermitted("move", src, dst); err != nil {
		return "", err
	}

	finalDst := m.resolveCollision(dst)

	if m.DryRun() {
		m.log.Debugf("dry-run: would move %s -> %s", src, finalDst)
		return finalDst, nil
	}

	if err := os.MkdirAll(filepath.Dir(finalDst), 0o755); err != nil {
		return "", err
	}

	if err := os.Rename(src, finalDst); err != nil {
		if isCrossDevice(err) {
			return finalDst, m.moveCrossDevice(src, finalDst)
		}
		return "", err
	}
	return finalDst, nil
}

// moveCrossDevice falls back to copy-then-delete when rename cannot cross
// filesystem boundaries, preserving per-file atomicity by writing to a
// temporary sibling of dst before the final rename.
func (m *Mover) moveCrossDevice(src, dst string) error {
	if err := m.copyViaTemp(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// CopyPreservingMetadata copies src to dst, preserving mode and mtime.
// dst must be permitted to mutate; src is read-only and so is held to the
// narrower rule of lying within an allowed root, if the allowed set is
// non-empty - it is never required to sit outside the protected set.
func (m *Mover) CopyPreservingMetadata(src, dst string) (string, error) {
	if err := m.checkPermitted("copy", dst); err != nil {
		return "", err
	}
	if !m.policy.IsWithinAllowed(src) {
		return "", corerr.New(corerr.KindProtectedPath, src, "copy denied: source is not within an allowed root", nil)
	}

	finalDst := m.resolveCollision(dst)

	if m.DryRun() {
		m.log.Debugf("dry-run: would copy %s -> %s", src, finalDst)
		return finalDst, nil
	}

	if err := m.copyViaTemp(src, finalDst); err != nil {
		return "", err
	}
	return finalDst, nil
}

func (m *Mover) copyViaTemp(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".mover-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, dst)
}

// DeleteFile removes a single file.
func (m *Mover) DeleteFile(path string) error {
	if err := m.checkPermitted("delete_file", path); err != nil {
		return err
	}
	if m.DryRun() {
		m.log.Debugf("dry-run: would delete %s", path)
		return nil
	}
	return os.Remove(path)
}

// RemoveDirRecursive removes path and everything below it.
func (m *Mover) RemoveDirRecursive(path string) error {
	if err := m.checkPermitted("remove_dir_recursive", path); err != nil {
		return err
	}
	if m.DryRun() {
		m.log.Debugf("dry-run: would recursively remove %s", path)
		return nil
	}
	return os.RemoveAll(path)
}

// RemoveEmptyDirsUnder groups all strict descendant directories of root by
// depth and removes, from deepest to shallowest, every one found empty.
// root itself is never removed. In dry-run, no deletions occur but the
// same directories are still identified and logged.
func (m *Mover) RemoveEmptyDirsUnder(root string) (int, error) {
	if err := m.checkPermitted("remove_empty_dirs_under", root); err != nil {
		return 0, err
	}

	byDepth := map[int][]string{}
	maxDepth := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || !info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		depth := strings.Count(rel, string(filepath.Separator)) + 1
		byDepth[depth] = append(byDepth[depth], path)
		if depth > maxDepth {
			maxDepth = depth
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	wouldRemove := map[string]struct{}{}
	for depth := maxDepth; depth >= 1; depth-- {
		for _, dir := range byDepth[depth] {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			left := 0
			for _, e := range entries {
				if _, gone := wouldRemove[filepath.Join(dir, e.Name())]; !gone {
					left++
				}
			}
			if left != 0 {
				continue
			}

			if m.DryRun() {
				m.log.Debugf("dry-run: would remove empty directory %s", dir)
				wouldRemove[dir] = struct{}{}
				removed++
				continue
			}
			if err := os.Remove(dir); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
