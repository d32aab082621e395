package recall_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ic-timon/packedforest/bench/recall"
	"github.com/ic-timon/packedforest/indexer"
)

func unitNormal(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	var norm float64
	for i := range v {
		x := rng.NormFloat64()
		v[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm < 1e-9 {
		norm = 1
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// runScenario builds a scaled-down version of one of spec.md §8's
// end-to-end scenarios and asserts its self-recall bound holds.
func runScenario(t *testing.T, metric indexer.Metric, dim, k, nItems, nTrees, searchN int, minRecall float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	vecs := make([][]float32, nItems)
	for i := range vecs {
		vecs[i] = unitNormal(rng, dim)
	}

	idx, err := indexer.New(indexer.Config{Dim: dim, K: k, Metric: metric, Seed: 7})
	require.NoError(t, err)
	for i, v := range vecs {
		require.NoError(t, idx.AddItem(i, v))
	}
	require.NoError(t, idx.Build(nTrees))

	mapper, err := idx.SaveMemory()
	require.NoError(t, err)
	searcher, err := indexer.LoadMapper(mapper, metric, indexer.LoadOptions{})
	require.NoError(t, err)
	defer searcher.Close()

	var recalls []float64
	for i := 0; i < nItems; i++ {
		approx, _, err := searcher.GetNNSByItem(i, searchN, -1)
		require.NoError(t, err)
		exact := recall.Exact(vecs, vecs[i], searchN)
		recalls = append(recalls, recall.AtN(approx, exact, searchN))
	}
	mean := recall.Mean(recalls)
	require.GreaterOrEqualf(t, mean, minRecall, "self-recall@%d = %.3f below bound", searchN, mean)
}

// TestSelfRecallEuclidean mirrors spec.md §8 scenario 1 at a scale the test
// suite can run in-process; the recall bound is unchanged from the spec.
func TestSelfRecallEuclidean(t *testing.T) {
	runScenario(t, indexer.Euclidean, 64, 64, 2000, 30, 30, 0.9)
}

// TestSelfRecallDotProduct mirrors scenario 2.
func TestSelfRecallDotProduct(t *testing.T) {
	runScenario(t, indexer.DotProduct, 64, 64, 2000, 30, 30, 0.9)
}

// TestSelfRecallDotProductNonMultipleOf16 mirrors scenario 3's dim=40 case,
// exercising the SIMD tail-remainder paths at a dimension spec.md calls out
// explicitly as not a multiple of 16.
func TestSelfRecallDotProductNonMultipleOf16(t *testing.T) {
	runScenario(t, indexer.DotProduct, 40, 40, 2000, 30, 30, 0.9)
}
