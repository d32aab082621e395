package indexer

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"

	"github.com/ic-timon/packedforest/codec"
	"github.com/ic-timon/packedforest/indexer/store"
)

// Searcher is the read-only, concurrency-safe query side of a built forest,
// mapped from a persisted artifact (§5's "shared-immutable" phase). Multiple
// Searchers may share one Mapper; Clone gives each goroutine its own
// physically separate mapping when that isolation is wanted instead.
type Searcher struct {
	mapper store.Mapper
	view   *packedView
	roots  []Id
	nItems int
	metric Metric
	logger Logger
}

// Load memory-maps path and prepares it for querying.
func Load(path string, metric Metric, opts LoadOptions) (*Searcher, error) {
	m, err := store.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "indexer: load")
	}
	return newSearcher(m, metric, opts)
}

// LoadMapper adopts an already-open Mapper — the "writer as loader" path
// that skips a disk round-trip for a Save/SaveMemory-produced artifact.
func LoadMapper(m store.Mapper, metric Metric, opts LoadOptions) (*Searcher, error) {
	return newSearcher(m, metric, opts)
}

func newSearcher(m store.Mapper, metric Metric, opts LoadOptions) (*Searcher, error) {
	view, err := parseArtifact(m.Bytes())
	if err != nil {
		m.Close()
		return nil, err
	}
	roots, nItems := view.discoverRoots()
	if len(roots) == 0 && view.nnodes > 0 {
		m.Close()
		return nil, ErrMalformedArtifact
	}
	s := &Searcher{mapper: m, view: view, roots: roots, nItems: nItems, metric: metric, logger: opts.Logger}
	if opts.Mlock {
		if err := m.Mlock(); err != nil {
			infow(s.logger, "mlock failed", "err", err)
		}
	}
	if opts.Madvise != 0 {
		if err := m.Madvise(opts.Madvise); err != nil {
			infow(s.logger, "madvise failed", "err", err)
		}
	}
	infow(s.logger, "index loaded", "n_items", nItems, "n_trees", len(roots), "dim", view.dim, "simd", codec.Dispatch())
	return s, nil
}

// Close releases the underlying mapping.
func (s *Searcher) Close() error { return s.mapper.Close() }

// NItems reports the number of items visible to this Searcher.
func (s *Searcher) NItems() int { return s.nItems }

// Clone produces an independent Searcher over a physically separate mapping.
func (s *Searcher) Clone() (*Searcher, error) {
	m, err := s.mapper.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "indexer: clone")
	}
	view, err := parseArtifact(m.Bytes())
	if err != nil {
		m.Close()
		return nil, err
	}
	roots, nItems := view.discoverRoots()
	return &Searcher{mapper: m, view: view, roots: roots, nItems: nItems, metric: s.metric, logger: s.logger}, nil
}

// Madvise forwards an OS hint against the live mapping.
func (s *Searcher) Madvise(flags MadviseFlags) error { return s.mapper.Madvise(flags) }

func (s *Searcher) checkItem(id int) error {
	if id < 0 || id >= s.nItems {
		return ErrItemNotFound
	}
	return nil
}

// GetItem unpacks item id's stored vector into out, which must have length dim.
func (s *Searcher) GetItem(id int, out []float32) error {
	if err := s.checkItem(id); err != nil {
		return err
	}
	codec.Unpack(s.view.PackedVector(id), out)
	return nil
}

// GetDistance returns the normalized distance between two stored items,
// on the same scale as the distances the search methods return. For
// DotProduct the underlying raw distance includes both items' dot_factor
// terms; a query vector supplied to GetNNSByVector carries an implicit
// dot_factor of zero, since it was never embedded on the build-time sphere.
func (s *Searcher) GetDistance(i, j int) (float32, error) {
	if err := s.checkItem(i); err != nil {
		return 0, err
	}
	if err := s.checkItem(j); err != nil {
		return 0, err
	}
	yj := make([]float32, s.view.dim)
	codec.Unpack(s.view.PackedVector(j), yj)
	return s.normalize(s.rawDistance(i, yj, s.view.Aux(j))), nil
}

// rawDistance computes the raw distance between stored node i and an
// external vector y with dot_factor dfY (0 for a bare query vector).
func (s *Searcher) rawDistance(i int, y []float32, dfY float32) float32 {
	q := s.view.PackedVector(i)
	if s.metric == DotProduct {
		return -(codec.DecodeAndDot(q, y) + s.view.Aux(i)*dfY)
	}
	return codec.DecodeAndEuclidean(q, y)
}

func (s *Searcher) normalize(raw float32) float32 {
	if s.metric == DotProduct {
		return codec.NormalizeDotProduct(raw)
	}
	return codec.NormalizeEuclidean(raw)
}

// pqEntry is a (priority, id) pair queued during the best-first descent.
type pqEntry struct {
	d  float32
	id Id
}

type maxHeap []pqEntry

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].d > h[j].d }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(pqEntry)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// margin evaluates the split-node hyperplane at node index i against query y.
func (s *Searcher) margin(i int, y []float32) float32 {
	q := s.view.PackedVector(i)
	dotv := codec.DecodeAndDot(q, y)
	if s.metric == DotProduct {
		df := s.view.Aux(i)
		return dotv + df*df
	}
	return s.view.Aux(i) + dotv
}

// collect performs the best-first traversal of §4.5, returning deduplicated
// candidate item ids gathered from at least searchK worth of leaf entries.
// searchK <= 0 defaults to n * len(s.roots), per §4.5/§6.3 and
// original_source/annoylib.h's n * _roots.size().
func (s *Searcher) collect(y []float32, n, searchK int) []int {
	if searchK <= 0 {
		searchK = n * len(s.roots)
	}
	h := make(maxHeap, 0, len(s.roots))
	for _, r := range s.roots {
		h = append(h, pqEntry{d: pqInitialValue(), id: r})
	}
	heap.Init(&h)

	seen := make(map[int]struct{})
	var candidates []int
	for h.Len() > 0 && len(candidates) < searchK {
		top := heap.Pop(&h).(pqEntry)
		id := top.id
		if id.isLeaf() {
			bucket := s.view.Bucket(id.clearLeafFlag())
			n := int(bucket[0])
			for k := 0; k < n; k++ {
				item := int(bucket[1+k])
				if _, ok := seen[item]; !ok {
					seen[item] = struct{}{}
					candidates = append(candidates, item)
				}
			}
			continue
		}
		ni := id.asNodeIndex()
		nd := s.view.NDescendants(ni)
		if nd == 1 && ni < s.nItems {
			if _, ok := seen[ni]; !ok {
				seen[ni] = struct{}{}
				candidates = append(candidates, ni)
			}
			continue
		}
		m := s.margin(ni, y)
		children := s.view.Children(ni)
		heap.Push(&h, pqEntry{d: pqDistance(top.d, m, false), id: children[0]})
		heap.Push(&h, pqEntry{d: pqDistance(top.d, m, true), id: children[1]})
	}
	return candidates
}

type scored struct {
	id   int
	dist float32
}

func (s *Searcher) rankByVector(y []float32, dfY float32, n, searchK int, keep func(id int) bool) ([]int, []float32) {
	candidates := s.collect(y, n, searchK)
	results := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		if keep != nil && !keep(id) {
			continue
		}
		results = append(results, scored{id: id, dist: s.rawDistance(id, y, dfY)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
	if n >= 0 && n < len(results) {
		results = results[:n]
	}
	ids := make([]int, len(results))
	dists := make([]float32, len(results))
	for i, r := range results {
		ids[i] = r.id
		dists[i] = s.normalize(r.dist)
	}
	return ids, dists
}

// GetNNSByVector finds the n approximate nearest items to an arbitrary
// query vector. searchK <= 0 selects the default of n * n_trees.
func (s *Searcher) GetNNSByVector(v []float32, n, searchK int) ([]int, []float32, error) {
	if len(v) != s.view.dim {
		return nil, nil, ErrDimMismatch
	}
	ids, dists := s.rankByVector(v, 0, n, searchK, nil)
	return ids, dists, nil
}

// GetNNSByVectorFilter is GetNNSByVector restricted to items for which keep
// returns true. keep is evaluated against raw item ids after candidate
// collection, before exact reranking.
func (s *Searcher) GetNNSByVectorFilter(v []float32, n, searchK int, keep func(id int) bool) ([]int, []float32, error) {
	if len(v) != s.view.dim {
		return nil, nil, ErrDimMismatch
	}
	ids, dists := s.rankByVector(v, 0, n, searchK, keep)
	return ids, dists, nil
}

// GetNNSByItem finds the n approximate nearest items to an already-indexed
// item, including the item's own dot_factor in the DotProduct metric.
func (s *Searcher) GetNNSByItem(id, n, searchK int) ([]int, []float32, error) {
	if err := s.checkItem(id); err != nil {
		return nil, nil, err
	}
	y := make([]float32, s.view.dim)
	codec.Unpack(s.view.PackedVector(id), y)
	ids, dists := s.rankByVector(y, s.view.Aux(id), n, searchK, nil)
	return ids, dists, nil
}

// GetNNSByItemFilter is GetNNSByItem restricted to items for which keep
// returns true.
func (s *Searcher) GetNNSByItemFilter(id, n, searchK int, keep func(id int) bool) ([]int, []float32, error) {
	if err := s.checkItem(id); err != nil {
		return nil, nil, err
	}
	y := make([]float32, s.view.dim)
	codec.Unpack(s.view.PackedVector(id), y)
	ids, dists := s.rankByVector(y, s.view.Aux(id), n, searchK, keep)
	return ids, dists, nil
}
