// Package hashcache implements the two-tier (persistent + ephemeral)
// content-hash cache described by the Hash Cache component: a
// reference-root-partitioned on-disk store for paths under the active
// reference root, and an in-memory-only tier for everything else.
package hashcache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
)

// Design defaults from the spec.
const (
	DefaultTTL               = 4 * 7 * 24 * time.Hour // 4 weeks
	DefaultAutoFlushThreshold = 10000
)

// Entry is one cached (path, digest, last-update) triple.
type Entry struct {
	Path       string
	Digest     string
	LastUpdate float64 // seconds since epoch
}

// Stats tracks per-tier hit/request counters.
type Stats struct {
	Requests uint64
	Hits     uint64
}

// Cache is the process-wide singleton hash store. Safe for concurrent Get
// calls; writes to either tier's index and to the unsaved-change counter
// are serialized through mu.
type Cache struct {
	mu sync.Mutex

	referenceRoot string
	storeDir      string
	mode          Mode
	algo          Algorithm
	ttl           time.Duration
	autoFlush     int

	persistent map[string]Entry
	ephemeral  map[string]Entry

	persistentStats Stats
	ephemeralStats  Stats

	unsavedChanges int

	now func() time.Time
}

// Options configures a new Cache.
type Options struct {
	ReferenceRoot     string
	StoreDir          string // directory holding the on-disk store files
	Mode              Mode
	Algorithm         Algorithm
	TTL               time.Duration
	AutoFlushThreshold int
}

// New constructs a Cache for the given reference root and loads any
// existing on-disk entries for that root into the persistent tier.
func New(opts Options) (*Cache, error) {
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.AutoFlushThreshold == 0 {
		opts.AutoFlushThreshold = DefaultAutoFlushThreshold
	}

	root, err := filepath.Abs(opts.ReferenceRoot)
	if err != nil {
		return nil, corerr.Wrap(corerr.KindConfigError, opts.ReferenceRoot, err)
	}

	c := &Cache{
		referenceRoot: root,
		storeDir:      opts.StoreDir,
		mode:          opts.Mode,
		algo:          opts.Algorithm,
		ttl:           opts.TTL,
		autoFlush:     opts.AutoFlushThreshold,
		persistent:    make(map[string]Entry),
		ephemeral:     make(map[string]Entry),
		now:           time.Now,
	}

	if opts.StoreDir != "" {
		if err := c.loadPersistent(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Cache) storePath() string {
	return filepath.Join(c.storeDir, "hashcache-"+c.mode.fileSuffix()+".gob")
}

func (c *Cache) underReferenceRoot(path string) bool {
	prefix := c.referenceRoot + string(filepath.Separator)
	return strings.HasPrefix(path, prefix) || path == c.referenceRoot
}

func (c *Cache) tierFor(path string) (map[string]Entry, *Stats) {
	if c.underReferenceRoot(path) {
		return c.persistent, &c.persistentStats
	}
	return c.ephemeral, &c.ephemeralStats
}

// Get returns the digest for path, computing and caching it on a miss or
// stale hit. Always increments the owning tier's request counter; hits
// within TTL additionally increment the hit counter.
func (c *Cache) Get(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", corerr.Wrap(corerr.KindConfigError, path, err)
	}

	c.mu.Lock()
	tier, stats := c.tierFor(abs)
	stats.Requests++
	entry, ok := tier[abs]
	fresh := ok && c.now().Sub(time.Unix(0, int64(entry.LastUpdate*1e9))) <= c.ttl
	if fresh {
		stats.Hits++
	}
	c.mu.Unlock()

	if fresh {
		return entry.Digest, nil
	}

	digest, err := hashFile(abs, c.mode, c.algo)
	if err != nil {
		return "", err
	}

	c.Put(abs, digest)
	return digest, nil
}

// Put upserts (path, digest) in the correct tier, bumping the persistent
// tier's unsaved-change counter and triggering an auto-flush once the
// configured threshold is reached.
func (c *Cache) Put(path, digest string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	c.mu.Lock()
	tier, _ := c.tierFor(abs)
	tier[abs] = Entry{Path: abs, Digest: digest, LastUpdate: float64(c.now().UnixNano()) / 1e9}

	mustFlush := false
	if c.underReferenceRoot(abs) {
		c.unsavedChanges++
		if c.unsavedChanges >= c.autoFlush {
			mustFlush = true
		}
	}
	c.mu.Unlock()

	if mustFlush {
		_ = c.Save()
	}
}

// HashesUnder returns every (path, digest) pair, from both tiers, whose
// path lies under folder.
func (c *Cache) HashesUnder(folder string) []Entry {
	abs, err := filepath.Abs(folder)
	if err != nil {
		abs = folder
	}
	prefix := abs + string(filepath.Separator)

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Entry
	for _, tier := range []map[string]Entry{c.persistent, c.ephemeral} {
		for p, e := range tier {
			if p == abs || strings.HasPrefix(p, prefix) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Clear drops both tiers from memory. The on-disk store is untouched
// until the next Save.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persistent = make(map[string]Entry)
	c.ephemeral = make(map[string]Entry)
	c.unsavedChanges = 0
}

// loadPersistent reads the on-disk store (if present) and keeps only the
// entries under the active reference root.
func (c *Cache) loadPersistent() error {
	all, err := readStoreFile(c.storePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return corerr.Wrap(corerr.KindHashIOError, c.storePath(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range all {
		if c.underReferenceRoot(e.Path) {
			c.persistent[e.Path] = e
		}
	}
	return nil
}

// Save performs the full save routine: expire stale persistent entries,
// read-merge-write against the on-disk file (never truncate-write, so
// other reference roots' partitions survive), and reset the
// unsaved-change counter.
func (c *Cache) Save() error {
	c.mu.Lock()
	cutoff := c.now().Add(-c.ttl)
	for path, e := range c.persistent {
		if time.Unix(0, int64(e.LastUpdate*1e9)).Before(cutoff) {
			delete(c.persistent, path)
		}
	}
	mine := make([]Entry, 0, len(c.persistent))
	for _, e := range c.persistent {
		mine = append(mine, e)
	}
	c.mu.Unlock()

	if c.storeDir == "" {
		return nil
	}

	onDisk, err := readStoreFile(c.storePath())
	if err != nil && !os.IsNotExist(err) {
		return corerr.Wrap(corerr.KindHashIOError, c.storePath(), err)
	}

	merged := make(map[string]Entry, len(onDisk)+len(mine))
	for _, e := range onDisk {
		if !c.underReferenceRoot(e.Path) {
			merged[e.Path] = e
		}
	}
	for _, e := range mine {
		merged[e.Path] = e
	}

	final := make([]Entry, 0, len(merged))
	for _, e := range merged {
		final = append(final, e)
	}

	if err := writeStoreFileAtomic(c.storePath(), final); err != nil {
		return corerr.Wrap(corerr.KindHashIOError, c.storePath(), err)
	}

	c.mu.Lock()
	c.unsavedChanges = 0
	c.mu.Unlock()
	return nil
}

// PersistentStats returns a snapshot of the persistent tier's counters.
func (c *Cache) PersistentStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistentStats
}

// EphemeralStats returns a snapshot of the ephemeral tier's counters.
func (c *Cache) EphemeralStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ephemeralStats
}
