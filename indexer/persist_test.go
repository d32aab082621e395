package indexer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomVectors(n, dim int, seed int64) [][]float32 {
	rnd := NewRandom(seed)
	vecs := make([][]float32, n)
	for i := range vecs {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rnd.Uniform(-1, 1))
		}
		vecs[i] = v
	}
	return vecs
}

func buildIndex(t *testing.T, metric Metric, vecs [][]float32, nTrees int) *Indexer {
	t.Helper()
	idx, err := New(Config{Dim: len(vecs[0]), Metric: metric, Seed: 42})
	require.NoError(t, err)
	for i, v := range vecs {
		require.NoError(t, idx.AddItem(i, v))
	}
	require.NoError(t, idx.Build(nTrees))
	return idx
}

func TestSaveLoadRoundTripFindsSelf(t *testing.T) {
	vecs := randomVectors(200, 32, 1)
	idx := buildIndex(t, Euclidean, vecs, 10)

	path := filepath.Join(t.TempDir(), "out.ann")
	require.NoError(t, idx.Save(path))

	s, err := Load(path, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, 200, s.NItems())

	for i := range vecs {
		ids, _, err := s.GetNNSByItem(i, 1, -1)
		require.NoError(t, err)
		require.Equal(t, i, ids[0], "item %d should be its own nearest neighbor", i)
	}
}

func TestSaveMemoryLoadMapperMatchesDisk(t *testing.T) {
	vecs := randomVectors(150, 40, 2)
	idx := buildIndex(t, DotProduct, vecs, 8)

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, DotProduct, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	path := filepath.Join(t.TempDir(), "out.ann")
	require.NoError(t, idx.Save(path))
	disk, err := Load(path, DotProduct, LoadOptions{})
	require.NoError(t, err)
	defer disk.Close()

	for i := range vecs {
		ids, dists, err := s.GetNNSByItem(i, 1, -1)
		require.NoError(t, err)
		require.Equal(t, i, ids[0])
		diskIDs, diskDists, err := disk.GetNNSByItem(i, 1, -1)
		require.NoError(t, err)
		require.Equal(t, diskIDs, ids)
		require.Equal(t, diskDists, dists)
	}
}

func TestGetItemRoundTripsWithinQuantizationTolerance(t *testing.T) {
	vecs := randomVectors(32, 16, 3)
	idx := buildIndex(t, Euclidean, vecs, 4)
	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := make([]float32, 16)
	require.NoError(t, s.GetItem(0, out))
	for i, x := range vecs[0] {
		require.InDeltaf(t, x, out[i], 1.0/32767+1e-6, "component %d", i)
	}
}

func TestGetItemOutOfRangeErrors(t *testing.T) {
	vecs := randomVectors(10, 8, 4)
	idx := buildIndex(t, Euclidean, vecs, 2)
	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	out := make([]float32, 8)
	require.ErrorIs(t, s.GetItem(-1, out), ErrItemNotFound)
	require.ErrorIs(t, s.GetItem(10, out), ErrItemNotFound)
}

// TestSelfDistanceMatchesMetric checks GetDistance(i, i): 0 for Euclidean,
// and for DotProduct the squared radius of the sphere that preprocess puts
// every item on, which is the largest squared norm among the inputs.
func TestSelfDistanceMatchesMetric(t *testing.T) {
	vecs := randomVectors(64, 24, 5)
	var maxNormSq float32
	for _, v := range vecs {
		var sq float32
		for _, x := range v {
			sq += x * x
		}
		if sq > maxNormSq {
			maxNormSq = sq
		}
	}
	for _, metric := range []Metric{Euclidean, DotProduct} {
		want := float32(0)
		if metric == DotProduct {
			want = maxNormSq
		}
		idx := buildIndex(t, metric, vecs, 6)
		mapper, err := idx.SaveMemory()
		require.NoError(t, err)
		s, err := LoadMapper(mapper, metric, LoadOptions{})
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			d, err := s.GetDistance(i, i)
			require.NoError(t, err)
			require.InDelta(t, want, d, 1e-2, "metric %v self-distance at item %d", metric, i)
		}
		s.Close()
	}
}

func TestCloneIsIndependentAndUsable(t *testing.T) {
	vecs := randomVectors(80, 16, 6)
	idx := buildIndex(t, Euclidean, vecs, 5)
	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	clone, err := s.Clone()
	require.NoError(t, err)
	defer clone.Close()
	require.Equal(t, s.NItems(), clone.NItems())

	ids1, _, err := s.GetNNSByItem(0, 3, -1)
	require.NoError(t, err)
	ids2, _, err := clone.GetNNSByItem(0, 3, -1)
	require.NoError(t, err)
	require.Equal(t, ids1, ids2)
}

func TestGetNNSByVectorFilterExcludesRejected(t *testing.T) {
	vecs := randomVectors(100, 16, 7)
	idx := buildIndex(t, Euclidean, vecs, 6)
	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	ids, _, err := s.GetNNSByVectorFilter(vecs[0], 5, -1, func(id int) bool { return id != 0 })
	require.NoError(t, err)
	require.NotContains(t, ids, 0)
}

func TestDimMismatchErrors(t *testing.T) {
	vecs := randomVectors(20, 16, 8)
	idx := buildIndex(t, Euclidean, vecs, 3)
	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.GetNNSByVector(make([]float32, 8), 1, -1)
	require.ErrorIs(t, err, ErrDimMismatch)
}
