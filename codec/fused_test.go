package codec

import (
	"math/rand"
	"testing"
)

func TestDecodeAndDotAgreesWithUnpack(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, dim := range []int{8, 40, 256} {
		x := randomUnitRange(rng, dim)
		y := randomUnitRange(rng, dim)
		q := make([]int16, dim)
		Pack(x, q)

		unpacked := make([]float32, dim)
		Unpack(q, unpacked)
		var want float32
		for i := range unpacked {
			want += unpacked[i] * y[i]
		}

		got := DecodeAndDot(q, y)
		if diff := want - got; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("dim=%d: DecodeAndDot=%.6f want %.6f", dim, got, want)
		}
	}
}

func TestDecodeAndEuclideanAgreesWithUnpack(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, dim := range []int{8, 40, 256} {
		x := randomUnitRange(rng, dim)
		y := randomUnitRange(rng, dim)
		q := make([]int16, dim)
		Pack(x, q)

		unpacked := make([]float32, dim)
		Unpack(q, unpacked)
		var want float32
		for i := range unpacked {
			d := unpacked[i] - y[i]
			want += d * d
		}

		got := DecodeAndEuclidean(q, y)
		if diff := want - got; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("dim=%d: DecodeAndEuclidean=%.6f want %.6f", dim, got, want)
		}
	}
}

func TestFusedMismatchedLengthsReturnZero(t *testing.T) {
	if got := DecodeAndDot(make([]int16, 8), make([]float32, 4)); got != 0 {
		t.Errorf("DecodeAndDot with mismatched lengths = %v, want 0", got)
	}
	if got := DecodeAndEuclidean(nil, nil); got != 0 {
		t.Errorf("DecodeAndEuclidean with empty operands = %v, want 0", got)
	}
}
