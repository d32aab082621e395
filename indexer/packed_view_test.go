package indexer

import (
	"testing"

	"github.com/ic-timon/packedforest/indexer/store"
)

// buildArtifact assembles a minimal valid artifact byte slice: nblocks
// empty buckets, then the given packed nodes (header + zeroed dim*2
// vector bytes each), then the tail Header. It mirrors persist.go's
// encode layout without going through Indexer.
func buildArtifact(t *testing.T, dim, k, nblocks int, nodes []func(hdr []byte)) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, make([]byte, nblocks*bucketBlockSize(k))...)
	for _, set := range nodes {
		hdr := make([]byte, nodeHeaderSize+dim*2)
		set(hdr)
		buf = append(buf, hdr...)
	}
	h := store.Header{Version: 0, Vlen: uint32(dim), IdxBlockLen: uint32(k), NBlocks: uint32(nblocks)}
	buf = append(buf, h.Encode()...)
	return buf
}

func setNDescendants(hdr []byte, n int32) {
	hdr[0] = byte(n)
	hdr[1] = byte(n >> 8)
	hdr[2] = byte(n >> 16)
	hdr[3] = byte(n >> 24)
}

func TestParseArtifactRejectsBadDim(t *testing.T) {
	data := buildArtifact(t, 7, 8, 0, nil)
	if _, err := parseArtifact(data); err == nil {
		t.Fatal("expected error for dim not a multiple of 8")
	}
}

func TestParseArtifactRejectsTruncatedNodeRegion(t *testing.T) {
	data := buildArtifact(t, 8, 8, 0, []func([]byte){
		func(hdr []byte) { setNDescendants(hdr, 1) },
	})
	// Drop 3 bytes from the single node's payload, leaving a node region
	// length that isn't a multiple of packedNodeSize(8).
	tail := data[len(data)-store.HeaderSize:]
	body := data[:len(data)-store.HeaderSize]
	truncated := append(body[:len(body)-3:len(body)-3], tail...)
	if _, err := parseArtifact(truncated); err == nil {
		t.Fatal("expected error for node region not a multiple of packed node size")
	}
}

func TestParseArtifactNodeCount(t *testing.T) {
	dim := 8
	data := buildArtifact(t, dim, 8, 0, []func([]byte){
		func(hdr []byte) { setNDescendants(hdr, 1) },
		func(hdr []byte) { setNDescendants(hdr, 1) },
	})
	view, err := parseArtifact(data)
	if err != nil {
		t.Fatalf("parseArtifact: %v", err)
	}
	if view.nnodes != 2 {
		t.Errorf("nnodes = %d, want 2", view.nnodes)
	}
}

func TestDiscoverRootsSingleRoot(t *testing.T) {
	dim := 8
	data := buildArtifact(t, dim, 8, 0, []func([]byte){
		func(hdr []byte) { setNDescendants(hdr, 1) }, // item 0
		func(hdr []byte) { setNDescendants(hdr, 1) }, // item 1
		func(hdr []byte) { setNDescendants(hdr, 2) }, // root split, n_descendants = n_items
		func(hdr []byte) { setNDescendants(hdr, 2) }, // tail duplicate of the root
	})
	view, err := parseArtifact(data)
	if err != nil {
		t.Fatalf("parseArtifact: %v", err)
	}
	roots, nItems := view.discoverRoots()
	if nItems != 2 {
		t.Errorf("nItems = %d, want 2", nItems)
	}
	if len(roots) == 0 {
		t.Fatal("expected at least one discovered root")
	}
	for _, r := range roots {
		if int(r) < nItems {
			t.Errorf("discovered root %d collides with an item slot (nItems=%d)", r, nItems)
		}
	}
}

func TestDiscoverRootsSingleItemDoesNotCollideWithItemSlot(t *testing.T) {
	dim := 8
	// nItems == 1: item 0 has n_descendants == 1, and so does the
	// synthetic root marker wrapping it. Without the index < m guard in
	// discoverRoots, the backward scan would misidentify item 0 itself
	// as a second root.
	data := buildArtifact(t, dim, 8, 1, []func([]byte){
		func(hdr []byte) { setNDescendants(hdr, 1) }, // item 0
		func(hdr []byte) { setNDescendants(hdr, 1) }, // root marker, n_descendants = n_items = 1
		func(hdr []byte) { setNDescendants(hdr, 1) }, // tail duplicate
	})
	view, err := parseArtifact(data)
	if err != nil {
		t.Fatalf("parseArtifact: %v", err)
	}
	roots, nItems := view.discoverRoots()
	if nItems != 1 {
		t.Fatalf("nItems = %d, want 1", nItems)
	}
	for _, r := range roots {
		if int(r) == 0 {
			t.Errorf("discovered roots %v incorrectly include item slot 0", roots)
		}
	}
}

func TestDiscoverRootsEmptyArtifact(t *testing.T) {
	data := buildArtifact(t, 8, 8, 0, nil)
	view, err := parseArtifact(data)
	if err != nil {
		t.Fatalf("parseArtifact: %v", err)
	}
	roots, nItems := view.discoverRoots()
	if roots != nil || nItems != 0 {
		t.Errorf("discoverRoots on empty artifact = %v, %d; want nil, 0", roots, nItems)
	}
}
