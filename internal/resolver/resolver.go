// Package resolver implements the Duplicate Resolver: runs the Bloom
// prefilter in both directions, keys the surviving candidates (serially
// or via a worker pool depending on cache warmth), buckets by key, and
// emits scan<->reference duplicate groups sorted deterministically.
package resolver

import (
	"runtime"
	"sort"
	"sync"

	"github.com/niradar/duplicate-files-in-folders/internal/bloomfilter"
	"github.com/niradar/duplicate-files-in-folders/internal/hashcache"
	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/keybuilder"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

func keyOf(r record.FileRecord, cache *hashcache.Cache, ignore ignoreset.Set) (string, error) {
	return keybuilder.Key(r, cache, ignore)
}

// DuplicateGroup holds the scan-side and reference-side records that
// share a FileKey. Both slices are non-empty and sorted by path.
type DuplicateGroup struct {
	Key  string
	Scan []record.FileRecord
	Ref  []record.FileRecord
}

// Result is the Resolver's output: the filtered duplicate groups plus the
// original, unfiltered scan/reference lists for summary reporting.
type Result struct {
	Groups       []DuplicateGroup
	AllScan      []record.FileRecord
	AllReference []record.FileRecord
}

// maxWorkers bounds the keying worker pool. Matches the teacher's bounded
// goroutine fan-out in its traversal logic, sized off available CPUs
// rather than a large fixed constant.
func maxWorkers() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// Resolve runs the two-pass match described in the design: Bloom-prefilter
// each side against the other, key the candidates (parallel only when the
// cache is already warm for that side), bucket, drop one-sided buckets,
// and sort each surviving bucket's sides by path.
func Resolve(scan, ref []record.FileRecord, ignore ignoreset.Set, cache *hashcache.Cache) (Result, error) {
	refFilters := bloomfilter.Build(ref, ignore)
	scanFilters := bloomfilter.Build(scan, ignore)

	candidateScan := refFilters.Filter(scan)
	candidateRef := scanFilters.Filter(ref)

	keyAll := func(side []record.FileRecord) ([]keyResult, error) {
		warm := cacheWarmFraction(side, cache) > 0.5
		if warm {
			return keyParallel(side, cache, ignore)
		}
		return keySerial(side, cache, ignore)
	}

	scanKeyed, err := keyAll(candidateScan)
	if err != nil {
		return Result{}, err
	}
	refKeyed, err := keyAll(candidateRef)
	if err != nil {
		return Result{}, err
	}

	buckets := make(map[string]*DuplicateGroup)
	for _, k := range scanKeyed {
		g, ok := buckets[k.key]
		if !ok {
			g = &DuplicateGroup{Key: k.key}
			buckets[k.key] = g
		}
		g.Scan = append(g.Scan, k.rec)
	}
	for _, k := range refKeyed {
		g, ok := buckets[k.key]
		if !ok {
			g = &DuplicateGroup{Key: k.key}
			buckets[k.key] = g
		}
		g.Ref = append(g.Ref, k.rec)
	}

	groups := make([]DuplicateGroup, 0, len(buckets))
	for _, g := range buckets {
		if len(g.Scan) == 0 || len(g.Ref) == 0 {
			continue
		}
		sort.Sort(record.Records(g.Scan))
		sort.Sort(record.Records(g.Ref))
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })

	return Result{Groups: groups, AllScan: scan, AllReference: ref}, nil
}

// cacheWarmFraction estimates what fraction of side's digests are already
// cached, without mutating the cache or its counters (a Get would count as
// a hit/miss either way): for each distinct path in side it asks
// HashesUnder(path) whether the cache holds an entry for exactly that path.
func cacheWarmFraction(side []record.FileRecord, cache *hashcache.Cache) float64 {
	if len(side) == 0 {
		return 0
	}
	cached := make(map[string]struct{})
	for _, r := range side {
		cached[r.Path] = struct{}{}
	}
	hits := 0
	for path := range cached {
		for _, e := range cache.HashesUnder(path) {
			if e.Path == path {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(cached))
}

type keyResult struct {
	key string
	rec record.FileRecord
}

func keySerial(side []record.FileRecord, cache *hashcache.Cache, ignore ignoreset.Set) ([]keyResult, error) {
	out := make([]keyResult, 0, len(side))
	for _, r := range side {
		k, err := keyOf(r, cache, ignore)
		if err != nil {
			return nil, err
		}
		out = append(out, keyResult{key: k, rec: r})
	}
	return out, nil
}

func keyParallel(side []record.FileRecord, cache *hashcache.Cache, ignore ignoreset.Set) ([]keyResult, error) {
	workers := maxWorkers()
	if workers > len(side) {
		workers = len(side)
	}
	if workers <= 1 {
		return keySerial(side, cache, ignore)
	}

	jobs := make(chan int)
	results := make([]keyResult, len(side))
	errs := make([]error, len(side))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				k, err := keyOf(side[i], cache, ignore)
				results[i] = keyResult{key: k, rec: side[i]}
				errs[i] = err
			}
		}()
	}

	for i := range side {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
