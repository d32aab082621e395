package codec

import "github.com/chewxy/math32"

// NormalizeEuclidean maps a raw squared-Euclidean distance to the
// presentation distance: identity, since callers that want a linear
// distance can take the square root themselves.
func NormalizeEuclidean(raw float32) float32 {
	return raw
}

// NormalizeDotProduct maps a raw (signed, negated) dot-product distance
// to a presentation value in a sign-agnostic range, mirroring
// original_source/src/packedlib.h's DotProductPacked16::distance, which
// stores -(dot) as the raw algebraic quantity search ranks by.
func NormalizeDotProduct(raw float32) float32 {
	return math32.Abs(raw)
}
