package codec

import "math"

// scalarMult/scalarDivisor mirror original_source/src/packutils.h's
// _15BITS_MULT / _15BITS_DIVISOR: 15 bits of signed magnitude leaves one
// bit for the sign in the int16 lane.
const (
	scalarMult    float32 = 32767.0
	scalarDivisor float32 = 1.0 / scalarMult
)

var (
	packImpl       func(x []float32, out []int16)
	unpackImpl     func(q []int16, out []float32)
	packImplDesc   string
	unpackImplDesc string
)

func init() {
	if packImpl == nil {
		packImpl = packGo
		packImplDesc = "go"
	}
	if unpackImpl == nil {
		unpackImpl = unpackGo
		unpackImplDesc = "go"
	}
}

// Dispatch returns the name of the active pack/unpack/fused implementation
// tier, for logging (e.g. "avx512", "avx2", "sse", "neon", "go").
func Dispatch() string {
	return packImplDesc
}

// Pack quantizes x into out, clamping to [-1, 1] before scaling to the
// int16 range. out must have the same length as x, a multiple of 8.
func Pack(x []float32, out []int16) {
	if len(x) == 0 || len(x) != len(out) {
		return
	}
	packImpl(x, out)
}

// Unpack reconstructs an approximate float32 vector from a packed one.
func Unpack(q []int16, out []float32) {
	if len(q) == 0 || len(q) != len(out) {
		return
	}
	unpackImpl(q, out)
}

func clamp1(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// packGo is the scalar reference implementation: round(clamp(x,-1,1)*32767).
func packGo(x []float32, out []int16) {
	for i, v := range x {
		scaled := clamp1(v) * scalarMult
		out[i] = int16(math.RoundToEven(float64(scaled)))
	}
}

// unpackGo is the scalar reference implementation: q/32767.
func unpackGo(q []int16, out []float32) {
	for i, v := range q {
		out[i] = float32(v) * scalarDivisor
	}
}
