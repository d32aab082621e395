package indexer

// leafBuckets is the dense array of fixed-width leaf buckets appended at
// the head of the persisted file (§3 "Leaf bucket"). Slot 0 of a bucket
// holds the item count; the remainder holds ids, zero-padded.
type leafBuckets struct {
	k       int
	buckets [][]Id
}

func newLeafBuckets(k int) *leafBuckets {
	return &leafBuckets{k: k}
}

// append writes a new bucket containing ids (2..K-1 of them) and returns
// its index (untagged — callers apply withLeafFlag).
func (lb *leafBuckets) append(ids []int) int {
	b := make([]Id, lb.k)
	b[0] = Id(len(ids))
	for i, id := range ids {
		b[1+i] = Id(id)
	}
	lb.buckets = append(lb.buckets, b)
	return len(lb.buckets) - 1
}

func (lb *leafBuckets) get(idx int) []Id { return lb.buckets[idx] }

// appendRaw copies an already-built bucket (e.g. from a parallel tree
// builder's scratch buckets) onto the end of lb, returning its new index.
func (lb *leafBuckets) appendRaw(b []Id) int {
	cp := make([]Id, len(b))
	copy(cp, b)
	lb.buckets = append(lb.buckets, cp)
	return len(lb.buckets) - 1
}

func (lb *leafBuckets) len() int { return len(lb.buckets) }
