// Package codec implements the lossy 16-bit linear quantization used to
// persist vector payloads: pack/unpack between float32 and int16, and
// fused decode-and-distance kernels that compute a dot product or a
// squared-Euclidean distance directly against a packed operand without
// materializing the unpacked float32 vector.
//
// Each primitive has a pure-Go reference implementation and, on amd64
// and arm64 with cgo enabled, SIMD-accelerated variants (SSE/AVX2/AVX-512
// on amd64, NEON on arm64) selected once at init time based on the
// running CPU's feature bits. All variants must agree bitwise on Pack
// and Unpack, and within 2e-4 on the fused kernels, for the same input.
package codec

// Dim8Multiple reports whether d is a legal vector dimension: a
// positive multiple of 8, the SSE lane width every kernel here assumes.
func Dim8Multiple(d int) bool {
	return d > 0 && d%8 == 0
}
