// Package pathpolicy implements the process-wide protected/allowed root
// policy that gates every mutating filesystem operation performed by the
// mover. It is the "Path Policy" component of the core design.
package pathpolicy

import (
	"path/filepath"
	"sync"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
)

// Policy is a process-wide gatekeeper. The zero value is usable: no roots
// protected, no roots allowed (which, per the invariant, permits anything
// not explicitly protected).
type Policy struct {
	mu        sync.RWMutex
	protected []string
	allowed   []string
}

// New returns an empty Policy.
func New() *Policy {
	return &Policy{}
}

// Reset clears all protected and allowed roots, returning the policy to
// its initial state. Required by test harnesses per the design notes.
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.protected = nil
	p.allowed = nil
}

func canonicalize(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The root may not exist yet (e.g. move_to before its first run).
		// Fall back to the absolute, non-symlink-resolved path.
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

// AddProtected registers root as a protected root. Fails if root is
// already registered as allowed.
func (p *Policy) AddProtected(root string) error {
	canon, err := canonicalize(root)
	if err != nil {
		return corerr.Wrap(corerr.KindConfigError, root, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.allowed {
		if a == canon {
			return corerr.New(corerr.KindConfigError, root, "root is already registered as allowed", nil)
		}
	}
	p.protected = append(p.protected, canon)
	return nil
}

// AddAllowed registers root as an allowed root. Fails if root is already
// registered as protected.
func (p *Policy) AddAllowed(root string) error {
	canon, err := canonicalize(root)
	if err != nil {
		return corerr.Wrap(corerr.KindConfigError, root, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pr := range p.protected {
		if pr == canon {
			return corerr.New(corerr.KindConfigError, root, "root is already registered as protected", nil)
		}
	}
	p.allowed = append(p.allowed, canon)
	return nil
}

// isUnderOrEqual reports whether path equals root or is a proper
// descendant of root, comparing canonical prefixes with a trailing
// separator so "/foo" does not match "/foo2".
func isUnderOrEqual(path, root string) bool {
	if path == root {
		return true
	}
	sep := string(filepath.Separator)
	prefix := root
	if prefix != sep {
		prefix += sep
	}
	return len(path) > len(prefix) && path[:len(prefix)] == prefix
}

// IsPermitted reports whether path is mutation-eligible: not inside any
// protected root, and (allowed is empty OR inside some allowed root).
func (p *Policy) IsPermitted(path string) bool {
	canon, err := canonicalize(path)
	if err != nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, pr := range p.protected {
		if isUnderOrEqual(canon, pr) {
			return false
		}
	}
	if len(p.allowed) == 0 {
		return true
	}
	for _, a := range p.allowed {
		if isUnderOrEqual(canon, a) {
			return true
		}
	}
	return false
}

// IsWithinAllowed reports whether path is inside some allowed root, or
// whether no allowed roots are registered at all (in which case every
// path qualifies). Unlike IsPermitted, it does not exclude protected
// roots - it answers the narrower "is this source within allowed"
// question that a read-only use of a path is held to.
func (p *Policy) IsWithinAllowed(path string) bool {
	canon, err := canonicalize(path)
	if err != nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.allowed) == 0 {
		return true
	}
	for _, a := range p.allowed {
		if isUnderOrEqual(canon, a) {
			return true
		}
	}
	return false
}

// NestPair describes one ordered (inner, outer) nesting violation.
type NestPair struct {
	Inner string
	Outer string
}

// AnyNests returns every ordered pair among paths where inner equals
// outer or is a proper descendant of outer, using canonical-prefix
// comparison.
func AnyNests(paths []string) ([]NestPair, error) {
	canon := make([]string, len(paths))
	for i, p := range paths {
		c, err := canonicalize(p)
		if err != nil {
			return nil, corerr.Wrap(corerr.KindConfigError, p, err)
		}
		canon[i] = c
	}

	var nests []NestPair
	for i := range canon {
		for j := range canon {
			if i == j {
				continue
			}
			if isUnderOrEqual(canon[i], canon[j]) {
				nests = append(nests, NestPair{Inner: paths[i], Outer: paths[j]})
			}
		}
	}
	return nests, nil
}
