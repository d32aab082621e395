package indexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{Dim: 0})
	require.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = New(Config{Dim: 7})
	require.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = New(Config{Dim: 16, K: 3})
	require.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = New(Config{Dim: 16, K: 32})
	require.ErrorIs(t, err, ErrConfigurationInvalid)

	idx, err := New(Config{Dim: 16})
	require.NoError(t, err)
	require.Equal(t, 16, idx.cfg.K)
}

func TestAddItemAfterBuildRejected(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	require.NoError(t, idx.AddItem(0, make([]float32, 8)))
	require.NoError(t, idx.Build(2))
	require.ErrorIs(t, idx.AddItem(1, make([]float32, 8)), ErrAlreadyBuilt)
	require.ErrorIs(t, idx.Build(2), ErrAlreadyBuilt)
}

func TestAddItemDimMismatchRejected(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	require.ErrorIs(t, idx.AddItem(0, make([]float32, 4)), ErrDimMismatch)
}

func TestAddItemSkippedIdsZeroFilled(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	v := make([]float32, 8)
	for i := range v {
		v[i] = 0.5
	}
	require.NoError(t, idx.AddItem(3, v))
	require.Equal(t, 4, idx.NItems())
	for _, x := range idx.store.Vector(0) {
		require.Equal(t, float32(0), x)
	}
}

func TestBuildWithZeroItemsIsNoop(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	require.NoError(t, idx.Build(10))
	require.Equal(t, 0, idx.NItems())

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	defer mapper.Close()
}

func TestBuildSingleItemProducesDiscoverableRoot(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	v := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	require.NoError(t, idx.AddItem(0, v))
	require.NoError(t, idx.Build(5))

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	ids, _, err := s.GetNNSByItem(0, 1, -1)
	require.NoError(t, err)
	require.Equal(t, []int{0}, ids)
}

func TestBuildFewerItemsThanKStaysInOneBucket(t *testing.T) {
	idx, err := New(Config{Dim: 8})
	require.NoError(t, err)
	vecs := randomVectors(5, 8, 11)
	for i, v := range vecs {
		require.NoError(t, idx.AddItem(i, v))
	}
	require.NoError(t, idx.Build(3))
	require.Equal(t, 3, idx.buckets.len(), "each of the 3 trees holds all 5 items in a single bucket")

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()

	for i := range vecs {
		ids, _, err := s.GetNNSByItem(i, 5, -1)
		require.NoError(t, err)
		require.Contains(t, ids, i)
	}
}

func TestBuildMultiTreeAllItemsReachable(t *testing.T) {
	vecs := randomVectors(500, 32, 12)
	idx := buildIndex(t, Euclidean, vecs, 20)

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	s, err := LoadMapper(mapper, Euclidean, LoadOptions{})
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, 20, len(s.roots))

	for i := range vecs {
		ids, _, err := s.GetNNSByItem(i, 1, -1)
		require.NoError(t, err)
		require.Equal(t, i, ids[0])
	}
}

func TestBuildGrowModeStopsAtThreshold(t *testing.T) {
	vecs := randomVectors(50, 16, 13)
	idx := buildIndex(t, Euclidean, vecs, -1)
	require.GreaterOrEqual(t, idx.store.Len(), 2*idx.NItems())
	require.NotEmpty(t, idx.roots)
}
