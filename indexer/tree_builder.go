package indexer

// treeBuilder partitions one tree's items into a private scratch store,
// reading item vectors from the shared (by then immutable) Indexer store
// but never writing to it — this is what lets Build run one treeBuilder per
// goroutine safely. Node ids it hands out are "virtual": a raw item id
// (< idx.nItems) passes through unchanged, while a local split/marker
// record i is reported as idx.nItems+i, letting mergeTree tell the two
// apart by a single comparison when it remaps children into global space.
type treeBuilder struct {
	idx     *Indexer
	store   *NodeStore
	buckets *leafBuckets
	ops     metricOps
	rnd     *Random
}

func (tb *treeBuilder) vecOf(i int) []float32 { return tb.idx.store.Vector(i) }

// newNode allocates a scratch record, returning both its virtual id (for
// propagating up as a child pointer) and its local record index (for
// Set* calls against tb.store).
func (tb *treeBuilder) newNode() (virtual, local int) {
	local = tb.store.Append()
	virtual = tb.idx.nItems + local
	return
}

// makeTree implements the per-call state machine of §4.4, writing only
// into tb.store/tb.buckets.
func (tb *treeBuilder) makeTree(indices []int, isRoot bool) int {
	if len(indices) == 1 && !isRoot {
		return indices[0]
	}
	if len(indices) <= tb.idx.cfg.K-1 {
		bucketIdx := tb.buckets.append(indices)
		bid := withLeafFlag(bucketIdx)
		if !isRoot {
			return int(bid)
		}
		// A root whose entire subtree is a single bucket has no split
		// node to duplicate at the tail for discovery; wrap it in a
		// marker split node carrying the root's n_descendants so the
		// usual tail-scan still finds it uniformly.
		virtual, local := tb.newNode()
		tb.store.SetNDescendants(local, int32(tb.idx.nItems))
		tb.store.SetAux(local, 0)
		tb.store.SetChildren(local, bid, bid)
		return virtual
	}

	virtual, local := tb.newNode()
	var left, right []int
	balanced := false
	var bestV []float32
	var bestAux float32
	for attempt := 0; attempt < 3; attempt++ {
		bestV, bestAux = tb.ops.createSplit(tb.idx.cfg.Dim, indices, tb.vecOf, tb.rnd)
		left, right = left[:0], right[:0]
		for _, c := range indices {
			m := tb.ops.margin(bestV, bestAux, tb.vecOf(c))
			if side(m, tb.rnd) == 1 {
				right = append(right, c)
			} else {
				left = append(left, c)
			}
		}
		imbalance := float64(max(len(left), len(right))) / float64(len(indices))
		if imbalance < 0.95 {
			balanced = true
			break
		}
	}
	if !balanced {
		// All attempts produced a lopsided split: fall back to a
		// zeroed hyperplane and a fair coin per item, guaranteeing
		// termination (§4.4 step 4).
		bestV = make([]float32, tb.idx.cfg.Dim)
		bestAux = 0
		left, right = left[:0], right[:0]
		for _, c := range indices {
			if tb.rnd.Flip() == 1 {
				right = append(right, c)
			} else {
				left = append(left, c)
			}
		}
	}
	copy(tb.store.Vector(local), bestV)
	tb.store.SetAux(local, bestAux)

	// Recurse into the smaller side first for build locality, but the
	// stored children must stay in (left, right) = (side 0, side 1) order
	// regardless of which one is smaller: collect's best-first descent
	// assigns its +margin/-margin priorities to children[1]/children[0]
	// positionally, matching side's margin>0 → 1 convention.
	smaller, larger := left, right
	smallerIsLeft := true
	if len(larger) < len(smaller) {
		smaller, larger = larger, smaller
		smallerIsLeft = false
	}
	childSmall := tb.makeTree(append([]int(nil), smaller...), false)
	childLarge := tb.makeTree(append([]int(nil), larger...), false)
	childLeft, childRight := childSmall, childLarge
	if !smallerIsLeft {
		childLeft, childRight = childLarge, childSmall
	}

	n := len(indices)
	if isRoot {
		n = tb.idx.nItems
	}
	tb.store.SetNDescendants(local, int32(n))
	tb.store.SetChildren(local, Id(childLeft), Id(childRight))
	return virtual
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
