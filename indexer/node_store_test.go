package indexer

import "testing"

func TestNodeStoreAppendGrowsAndZeroes(t *testing.T) {
	s := NewNodeStore(8)
	for i := 0; i < 50; i++ {
		idx := s.Append()
		if idx != i {
			t.Fatalf("Append() #%d returned index %d", i, idx)
		}
		if got := s.NDescendants(idx); got != 0 {
			t.Errorf("record %d: NDescendants = %d, want 0 (fresh capacity must be zeroed)", idx, got)
		}
		for _, x := range s.Vector(idx) {
			if x != 0 {
				t.Errorf("record %d: vector not zero-initialized: %v", idx, s.Vector(idx))
				break
			}
		}
	}
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}

func TestNodeStoreFieldsRoundTrip(t *testing.T) {
	s := NewNodeStore(8)
	i := s.Append()
	s.SetNDescendants(i, 7)
	s.SetAux(i, 3.25)
	s.SetChildren(i, Id(1), withLeafFlag(2))
	copy(s.Vector(i), []float32{1, 2, 3, 4, 5, 6, 7, 8})

	if got := s.NDescendants(i); got != 7 {
		t.Errorf("NDescendants = %d, want 7", got)
	}
	if got := s.Aux(i); got != 3.25 {
		t.Errorf("Aux = %v, want 3.25", got)
	}
	children := s.Children(i)
	if children[0] != Id(1) || !children[1].isLeaf() || children[1].clearLeafFlag() != 2 {
		t.Errorf("Children = %v, unexpected", children)
	}
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	for k, x := range s.Vector(i) {
		if x != want[k] {
			t.Errorf("Vector[%d] = %v, want %v", k, x, want[k])
		}
	}
}

func TestNodeStoreCopyNode(t *testing.T) {
	s := NewNodeStore(8)
	src := s.Append()
	dst := s.Append()
	s.SetNDescendants(src, 9)
	s.SetAux(src, -1.5)
	s.SetChildren(src, Id(4), Id(5))
	copy(s.Vector(src), []float32{1, 1, 1, 1, 1, 1, 1, 1})

	s.CopyNode(dst, src)
	if s.NDescendants(dst) != 9 {
		t.Errorf("CopyNode: NDescendants = %d, want 9", s.NDescendants(dst))
	}
	if s.Aux(dst) != -1.5 {
		t.Errorf("CopyNode: Aux = %v, want -1.5", s.Aux(dst))
	}
	children := s.Children(dst)
	if children[0] != Id(4) || children[1] != Id(5) {
		t.Errorf("CopyNode: Children = %v", children)
	}
}

func TestNodeStoreViewsSurviveAfterReResolve(t *testing.T) {
	s := NewNodeStore(8)
	for i := 0; i < 200; i++ {
		idx := s.Append()
		s.SetNDescendants(idx, int32(idx))
	}
	for i := 0; i < 200; i++ {
		if got := s.NDescendants(i); got != int32(i) {
			t.Fatalf("after growth, record %d: NDescendants = %d, want %d", i, got, i)
		}
	}
}
