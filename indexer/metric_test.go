package indexer

import "testing"

func vecsFromSlices(vv ...[]float32) func(int) []float32 {
	return func(i int) []float32 { return vv[i] }
}

func TestEuclideanInitLeafSetsSquaredNorm(t *testing.T) {
	s := NewNodeStore(4)
	i := s.Append()
	copy(s.Vector(i), []float32{1, 2, 2, 0})
	euclideanOps{}.initLeaf(s, i)
	if got, want := s.Aux(i), float32(9); got != want {
		t.Errorf("Aux = %v, want %v", got, want)
	}
}

func TestEuclideanMarginSignFlipsAcrossHyperplane(t *testing.T) {
	ops := euclideanOps{}
	v := []float32{1, 0}
	aux := float32(0)
	left := ops.margin(v, aux, []float32{-1, 5})
	right := ops.margin(v, aux, []float32{1, 5})
	if left >= 0 {
		t.Errorf("margin(%v) = %v, want negative", []float32{-1, 5}, left)
	}
	if right <= 0 {
		t.Errorf("margin(%v) = %v, want positive", []float32{1, 5}, right)
	}
}

func TestEuclideanCreateSplitProducesUnitDirection(t *testing.T) {
	rnd := NewRandom(1)
	children := []int{0, 1, 2, 3}
	vecOf := vecsFromSlices(
		[]float32{1, 0, 0, 0},
		[]float32{-1, 0, 0, 0},
		[]float32{0, 1, 0, 0},
		[]float32{0, -1, 0, 0},
	)
	v, _ := euclideanOps{}.createSplit(4, children, vecOf, rnd)
	n := squaredNorm(v)
	if n < 0.99 || n > 1.01 {
		t.Errorf("createSplit direction not unit norm: |v|^2 = %v", n)
	}
}

func TestDotProductPreprocessEmbedsOntoSharedSphere(t *testing.T) {
	s := NewNodeStore(2)
	a := s.Append()
	b := s.Append()
	copy(s.Vector(a), []float32{3, 0}) // norm 3
	copy(s.Vector(b), []float32{1, 0}) // norm 1
	dotProductOps{}.preprocess(s, []int{a, b})

	// max squared norm is 9; dot_factor = sqrt(9 - normSq)
	if got, want := s.Aux(a), float32(0); got != want {
		t.Errorf("Aux(a) = %v, want %v (max-norm item has zero dot_factor)", got, want)
	}
	if got, want := s.Aux(b), float32(2.828427); got < want-1e-3 || got > want+1e-3 {
		t.Errorf("Aux(b) = %v, want ~%v", got, want)
	}
}

func TestDotProductMarginIncludesAuxSquared(t *testing.T) {
	ops := dotProductOps{}
	v := []float32{1, 0}
	got := ops.margin(v, 2, []float32{3, 0})
	want := float32(3 + 4) // dot(v,y) + aux^2
	if got != want {
		t.Errorf("margin = %v, want %v", got, want)
	}
}

func TestDotProductCreateSplitHandlesFewerThanTwoChildren(t *testing.T) {
	rnd := NewRandom(2)
	vecOf := vecsFromSlices([]float32{1, 1})
	v, aux := dotProductOps{}.createSplit(2, []int{0}, vecOf, rnd)
	if aux != 0 {
		t.Errorf("aux = %v, want 0", aux)
	}
	for _, x := range v {
		if x != 0 {
			t.Errorf("v = %v, want all-zero for a single-child split", v)
			break
		}
	}
}

func TestSideFairCoinOnZeroMargin(t *testing.T) {
	rnd := NewRandom(9)
	seenLeft, seenRight := false, false
	for i := 0; i < 50; i++ {
		if side(0, rnd) == 1 {
			seenRight = true
		} else {
			seenLeft = true
		}
	}
	if !seenLeft || !seenRight {
		t.Errorf("side(0, rnd) over 50 draws: seenLeft=%v seenRight=%v, want both to occur", seenLeft, seenRight)
	}
}

func TestPqDistanceTakesMinOfParentAndMargin(t *testing.T) {
	if got := pqDistance(5, 3, true); got != 3 {
		t.Errorf("pqDistance(5,3,right) = %v, want 3", got)
	}
	if got := pqDistance(1, 3, true); got != 1 {
		t.Errorf("pqDistance(1,3,right) = %v, want 1", got)
	}
	if got := pqDistance(5, 3, false); got != -3 {
		t.Errorf("pqDistance(5,3,left) = %v, want -3", got)
	}
}
