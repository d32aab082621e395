package indexer

import "math/rand"

// Random is the abstract source the metric and tree builder draw from: a
// fair coin and a uniform float in a range. It is intentionally the one
// primitive in this package built on the standard library rather than a
// third-party dependency — the contract (seed once, reproduce identically
// for a given seed and platform) is exactly math/rand's *rand.Rand
// contract, and no example repo in the corpus wraps a PRNG behind its own
// library; pulling one in here would add a dependency with no concern it
// serves beyond what math/rand already provides.
type Random struct {
	r *rand.Rand
}

// NewRandom constructs a Random from a seed. A zero seed still produces a
// deterministic, reproducible sequence (math/rand's contract), satisfying
// the "identical seeds yield identical indexes" requirement.
func NewRandom(seed int64) *Random {
	return &Random{r: rand.New(rand.NewSource(seed))}
}

// Flip returns a fair coin draw: 0 or 1.
func (rnd *Random) Flip() int {
	return rnd.r.Intn(2)
}

// Uniform draws a float uniformly from [lo, hi).
func (rnd *Random) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rnd.r.Float64()*(hi-lo)
}

// Gaussian draws from the standard normal distribution, used to sample
// random hyperplane directions for the Euclidean split (§4.3).
func (rnd *Random) Gaussian() float64 {
	return rnd.r.NormFloat64()
}

// Index draws a uniform integer in [0, n).
func (rnd *Random) Index(n int) int {
	if n <= 0 {
		return 0
	}
	return rnd.r.Intn(n)
}

// Seed draws an int64 suitable for constructing an independent Random,
// used to hand each parallel tree-build goroutine its own deterministic
// (given the parent's seed) source instead of sharing one across goroutines.
func (rnd *Random) Seed() int64 {
	return rnd.r.Int63()
}
