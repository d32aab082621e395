package indexer

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Indexer owns the build phase: items are appended, the node array grows
// geometrically, and Build runs the recursive split-tree construction
// described in §4.4, one goroutine per root tree. Each goroutine partitions
// its own item subset into a private scratch NodeStore/leafBuckets — it
// only ever reads the shared item region of idx.store, which is immutable
// from the moment preprocess/initLeaf finish — and the results are merged
// into the shared store one at a time, in submission order, so the
// persisted layout is identical regardless of goroutine scheduling. A
// single Indexer is not safe for concurrent AddItem/Build calls — only the
// internal per-root fan-out is parallel.
type Indexer struct {
	cfg     Config
	store   *NodeStore
	buckets *leafBuckets
	rnd     *Random
	nItems  int
	roots   []int // node-array indices of each tree's root (or marker, see makeTree)
	built   bool
}

// New constructs an empty Indexer. cfg.K is filled from cfg.Dim if unset.
func New(cfg Config) (*Indexer, error) {
	cfg = cfg.OrDefault()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Indexer{
		cfg:     cfg,
		store:   NewNodeStore(cfg.Dim),
		buckets: newLeafBuckets(cfg.K),
		rnd:     NewRandom(cfg.Seed),
	}, nil
}

// AddItem stores v at item id. Item ids directly address node-array
// positions (§3 invariant 6: "item id i < n_items references a valid leaf
// node at position i"); the store grows to accommodate id, zero-filling any
// skipped positions.
func (idx *Indexer) AddItem(id int, v []float32) error {
	if idx.built {
		return ErrAlreadyBuilt
	}
	if len(v) != idx.cfg.Dim {
		return ErrDimMismatch
	}
	for idx.store.Len() <= id {
		idx.store.Append()
	}
	copy(idx.store.Vector(id), v)
	idx.store.SetNDescendants(id, 1)
	if id+1 > idx.nItems {
		idx.nItems = id + 1
	}
	return nil
}

// Build runs the tree-building state machine. nTrees < 0 means "grow until
// total node count >= 2*n_items" (§6.2). Trees within a batch build
// concurrently via errgroup, grounded on hupe1980-vecgo's use of the same
// package for fan-out work; batches exist only so grow mode can check the
// stopping threshold between rounds.
func (idx *Indexer) Build(nTrees int) error {
	if idx.built {
		return ErrAlreadyBuilt
	}
	if idx.nItems == 0 {
		idx.built = true
		return nil
	}
	items := make([]int, idx.nItems)
	for i := range items {
		items[i] = i
	}
	ops := opsFor(idx.cfg.Metric)
	ops.preprocess(idx.store, items)
	for i := range items {
		ops.initLeaf(idx.store, i)
	}

	grow := nTrees < 0
	built := 0
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	for grow || built < nTrees {
		batch := workers
		if !grow && nTrees-built < batch {
			batch = nTrees - built
		}
		if batch < 1 {
			batch = 1
		}

		seeds := make([]int64, batch)
		for b := range seeds {
			seeds[b] = idx.rnd.Seed()
		}
		results := make([]*treeResult, batch)
		var g errgroup.Group
		for b := 0; b < batch; b++ {
			b := b
			g.Go(func() error {
				results[b] = idx.buildOneTree(items, ops, NewRandom(seeds[b]))
				return nil
			})
		}
		_ = g.Wait() // buildOneTree never returns an error

		for _, r := range results {
			idx.roots = append(idx.roots, idx.mergeTree(r))
			built++
		}
		if grow && idx.store.Len() >= 2*idx.nItems && len(idx.roots) > 0 {
			break
		}
	}

	// Root duplication: append a byte copy of each root so a backward
	// scan over the tail finds them (§4.4 "Post-build").
	for _, r := range idx.roots {
		dup := idx.store.Append()
		idx.store.CopyNode(dup, r)
	}
	idx.built = true
	return nil
}

// treeResult is one goroutine's private tree, addressed by record index
// (0-based) into its own scratch store/buckets, pending merge into the
// shared Indexer state.
type treeResult struct {
	store   *NodeStore
	buckets *leafBuckets
	root    int // virtual id idx.nItems+local record index, see treeBuilder.newNode
}

// buildOneTree partitions items into a single tree using a private scratch
// store, touching no Indexer state beyond read-only item vectors.
func (idx *Indexer) buildOneTree(items []int, ops metricOps, rnd *Random) *treeResult {
	tb := &treeBuilder{
		idx:     idx,
		store:   NewNodeStore(idx.cfg.Dim),
		buckets: newLeafBuckets(idx.cfg.K),
		ops:     ops,
		rnd:     rnd,
	}
	root := tb.makeTree(items, true)
	return &treeResult{store: tb.store, buckets: tb.buckets, root: root}
}

// mergeTree serially appends r's scratch records/buckets onto the shared
// Indexer state, remapping child pointers by the offsets this merge
// assigns, and returns the tree's final global root index.
func (idx *Indexer) mergeTree(r *treeResult) int {
	nodeBase := idx.store.Len()
	bucketBase := idx.buckets.len()

	remap := func(c Id) Id {
		if c.isLeaf() {
			return withLeafFlag(c.clearLeafFlag() + bucketBase)
		}
		v := int(c)
		if v < idx.nItems {
			return Id(v) // raw item id, global already
		}
		return Id(nodeBase + (v - idx.nItems)) // virtual local-record id, see treeBuilder.newNode
	}

	for b := 0; b < r.buckets.len(); b++ {
		src := r.buckets.get(b)
		idx.buckets.appendRaw(src)
	}
	for i := 0; i < r.store.Len(); i++ {
		dst := idx.store.Append()
		idx.store.SetNDescendants(dst, r.store.NDescendants(i))
		idx.store.SetAux(dst, r.store.Aux(i))
		copy(idx.store.Vector(dst), r.store.Vector(i))
		children := r.store.Children(i)
		idx.store.SetChildren(dst, remap(children[0]), remap(children[1]))
	}

	return int(remap(Id(r.root)))
}

// NItems reports the number of items added so far.
func (idx *Indexer) NItems() int { return idx.nItems }
