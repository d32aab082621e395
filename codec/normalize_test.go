package codec

import "testing"

func TestNormalizeEuclideanIsIdentity(t *testing.T) {
	for _, raw := range []float32{0, 1.5, 100} {
		if got := NormalizeEuclidean(raw); got != raw {
			t.Errorf("NormalizeEuclidean(%v) = %v, want %v", raw, got, raw)
		}
	}
}

func TestNormalizeDotProductIsAbs(t *testing.T) {
	cases := map[float32]float32{-3.5: 3.5, 3.5: 3.5, 0: 0}
	for raw, want := range cases {
		if got := NormalizeDotProduct(raw); got != want {
			t.Errorf("NormalizeDotProduct(%v) = %v, want %v", raw, got, want)
		}
	}
}
