package indexer

import "testing"

func TestLeafBucketsAppendLayout(t *testing.T) {
	lb := newLeafBuckets(4)
	idx := lb.append([]int{5, 9})
	if idx != 0 {
		t.Fatalf("append returned index %d, want 0", idx)
	}
	b := lb.get(idx)
	if len(b) != 4 {
		t.Fatalf("bucket length = %d, want k=4", len(b))
	}
	if b[0] != Id(2) {
		t.Errorf("slot 0 (count) = %d, want 2", b[0])
	}
	if b[1] != Id(5) || b[2] != Id(9) {
		t.Errorf("bucket contents = %v, want [_,5,9,0]", b)
	}
	if b[3] != Id(0) {
		t.Errorf("unused slot = %d, want zero padding", b[3])
	}
}

func TestLeafBucketsAppendRawCopiesIndependently(t *testing.T) {
	lb := newLeafBuckets(4)
	src := []Id{2, 1, 2, 0}
	idx := lb.appendRaw(src)
	src[1] = 99 // mutating the caller's slice must not affect the stored copy
	if got := lb.get(idx)[1]; got != 1 {
		t.Errorf("appendRaw did not copy: get(idx)[1] = %d, want 1 (unaffected by later mutation)", got)
	}
}

func TestLeafBucketsLen(t *testing.T) {
	lb := newLeafBuckets(4)
	if lb.len() != 0 {
		t.Fatalf("len() = %d, want 0", lb.len())
	}
	lb.append([]int{1})
	lb.appendRaw([]Id{0, 0, 0, 0})
	if lb.len() != 2 {
		t.Errorf("len() = %d, want 2", lb.len())
	}
}
