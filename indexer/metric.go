package indexer

import (
	"math"

	"github.com/chewxy/math32"
)

// metricOps is the build-time hyperplane/partitioning contract each metric
// implements (§4.3). createSplit/margin are pure functions over item
// vectors and a returned (v, aux) pair rather than direct NodeStore
// mutation, so one tree's split computation can run concurrently with
// another's (see builder.go's per-root goroutines) while they still share
// the read-only, already-preprocessed item region of the store. Search-time
// distance against the packed persisted artifact is handled separately in
// search.go via the codec package's fused kernels, parameterized by the
// same Metric enum.
type metricOps interface {
	// preprocess runs once, before any tree is built, and may rewrite aux
	// (only DotProduct uses this — the sphere-embedding dot_factor).
	preprocess(store *NodeStore, itemIdx []int)
	// initLeaf sets a leaf's aux field once its vector is populated.
	initLeaf(store *NodeStore, i int)
	// createSplit samples a hyperplane given the candidate children's item
	// vectors (resolved via vecOf), returning the hyperplane vector and aux.
	createSplit(dim int, children []int, vecOf func(int) []float32, rnd *Random) (v []float32, aux float32)
	// margin is the signed distance from y to a hyperplane (v, aux).
	margin(v []float32, aux float32, y []float32) float32
}

func opsFor(m Metric) metricOps {
	if m == DotProduct {
		return dotProductOps{}
	}
	return euclideanOps{}
}

// side applies the fair-coin tie-break described in §4.3.
func side(margin float32, rnd *Random) int {
	if margin > 0 {
		return 1
	}
	if margin < 0 {
		return 0
	}
	return rnd.Flip()
}

// pqDistance implements the bounded priority-queue distance used while
// descending the forest: min(parent_d, ±margin).
func pqDistance(parentD, margin float32, goingRight bool) float32 {
	m := margin
	if !goingRight {
		m = -margin
	}
	if m < parentD {
		return m
	}
	return parentD
}

// pqInitialValue seeds every root with +∞ priority.
func pqInitialValue() float32 {
	return float32(math.Inf(1))
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func squaredNorm(v []float32) float32 {
	return dot(v, v)
}

func randomUnitGaussian(dim int, rnd *Random) []float32 {
	v := make([]float32, dim)
	var norm float32
	for i := range v {
		g := float32(rnd.Gaussian())
		v[i] = g
		norm += g * g
	}
	norm = math32.Sqrt(norm)
	if norm < 1e-9 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// --- Euclidean ---

type euclideanOps struct{}

func (euclideanOps) preprocess(*NodeStore, []int) {}

func (euclideanOps) initLeaf(store *NodeStore, i int) {
	store.SetAux(i, squaredNorm(store.Vector(i)))
}

// createSplit samples a hyperplane by Metropolis-Hastings with 10 steps:
// at each step draw a Gaussian unit direction, project every candidate
// child onto it, and accept the direction if its spread beats a uniform
// draw over [0, best spread so far).
func (euclideanOps) createSplit(dim int, children []int, vecOf func(int) []float32, rnd *Random) ([]float32, float32) {
	bestSpread := float32(-1)
	var bestV []float32
	var bestMin, bestMax float32
	for step := 0; step < 10; step++ {
		v := randomUnitGaussian(dim, rnd)
		lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
		for _, c := range children {
			p := dot(v, vecOf(c))
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		spread := hi - lo
		if bestSpread < 0 || spread > float32(rnd.Uniform(0, float64(bestSpread))) {
			bestSpread = spread
			bestV = v
			bestMin, bestMax = lo, hi
		}
	}
	return bestV, -float32(rnd.Uniform(float64(bestMin), float64(bestMax)))
}

func (euclideanOps) margin(v []float32, aux float32, y []float32) float32 {
	return aux + dot(v, y)
}

// --- DotProduct ---

type dotProductOps struct{}

// preprocess computes the per-item dot_factor that embeds every item onto a
// common (dim+1)-sphere of radius M = max_i ||v_i||, converting inner
// product search into an Euclidean-like split problem (§4.3). The v field
// itself is left untouched; dot_factor is stored in aux.
func (dotProductOps) preprocess(store *NodeStore, itemIdx []int) {
	var maxNormSq float32
	for _, i := range itemIdx {
		if n := squaredNorm(store.Vector(i)); n > maxNormSq {
			maxNormSq = n
		}
	}
	for _, i := range itemIdx {
		normSq := squaredNorm(store.Vector(i))
		df := maxNormSq - normSq
		if df < 0 {
			df = 0
		}
		store.SetAux(i, math32.Sqrt(df))
	}
}

func (dotProductOps) initLeaf(*NodeStore, int) {}

// createSplit samples two children uniformly, sets v to the difference of
// their L2-normalized vectors, then L2-normalizes v.
func (dotProductOps) createSplit(dim int, children []int, vecOf func(int) []float32, rnd *Random) ([]float32, float32) {
	v := make([]float32, dim)
	if len(children) < 2 {
		return v, 0
	}
	i := children[rnd.Index(len(children))]
	j := children[rnd.Index(len(children))]
	for j == i && len(children) > 1 {
		j = children[rnd.Index(len(children))]
	}
	vi, vj := vecOf(i), vecOf(j)
	ni, nj := math32.Sqrt(squaredNorm(vi)), math32.Sqrt(squaredNorm(vj))
	if ni < 1e-9 {
		ni = 1
	}
	if nj < 1e-9 {
		nj = 1
	}
	for k := range v {
		v[k] = vi[k]/ni - vj[k]/nj
	}
	norm := math32.Sqrt(squaredNorm(v))
	if norm > 1e-9 {
		for k := range v {
			v[k] /= norm
		}
	}
	return v, 0
}

func (dotProductOps) margin(v []float32, aux float32, y []float32) float32 {
	return dot(v, y) + aux*aux
}
