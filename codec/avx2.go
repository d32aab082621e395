//go:build amd64 && cgo

package codec

/*
#cgo CFLAGS: -mavx2 -mfma -O3
#include <immintrin.h>
#include <stdint.h>
#include <string.h>

static const float _15BITS_MULT = 32767.f, _15BITS_DIVISOR = 1.f / 32767.f;

static void PackAVX2(float const *x, int16_t *out, uint32_t d) {
	__m256 m1 = _mm256_set1_ps(_15BITS_MULT);
	__m256 lo = _mm256_set1_ps(-1.f), hi = _mm256_set1_ps(1.f);
	for (uint32_t i = 0; i < d; i += 16) {
		__m256 a = _mm256_min_ps(_mm256_max_ps(_mm256_loadu_ps(x + i), lo), hi);
		__m256 b = _mm256_min_ps(_mm256_max_ps(_mm256_loadu_ps(x + i + 8), lo), hi);
		__m256i ai = _mm256_cvtps_epi32(_mm256_mul_ps(a, m1));
		__m256i bi = _mm256_cvtps_epi32(_mm256_mul_ps(b, m1));
		__m256i packed = _mm256_packs_epi32(ai, bi);
		packed = _mm256_permute4x64_epi64(packed, 0xD8);
		memcpy(out + i, &packed, sizeof(packed));
	}
}

static void UnpackAVX2(int16_t const *in, float *out, uint32_t d) {
	__m256 m1 = _mm256_set1_ps(_15BITS_DIVISOR);
	for (uint32_t i = 0; i < d; i += 16) {
		__m256i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm256_permute4x64_epi64(s, 0xD8);
		__m256i ai = _mm256_srai_epi32(_mm256_unpacklo_epi16(s, s), 16);
		__m256i bi = _mm256_srai_epi32(_mm256_unpackhi_epi16(s, s), 16);
		_mm256_storeu_ps(out + i, _mm256_mul_ps(_mm256_cvtepi32_ps(ai), m1));
		_mm256_storeu_ps(out + i + 8, _mm256_mul_ps(_mm256_cvtepi32_ps(bi), m1));
	}
}

static float horizontal_sum_m256(__m256 v) {
	__m128 lo = _mm256_castps256_ps128(v);
	__m128 hi = _mm256_extractf128_ps(v, 1);
	lo = _mm_add_ps(lo, hi);
	lo = _mm_hadd_ps(lo, lo);
	lo = _mm_hadd_ps(lo, lo);
	return _mm_cvtss_f32(lo);
}

static float DecodeAndDotAVX2(int16_t const *in, float const *y, uint32_t d) {
	__m256 m1 = _mm256_set1_ps(_15BITS_DIVISOR);
	__m256 sum = _mm256_setzero_ps();
	for (uint32_t i = 0; i < d; i += 16) {
		__m256i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm256_permute4x64_epi64(s, 0xD8);
		__m256i ai = _mm256_srai_epi32(_mm256_unpacklo_epi16(s, s), 16);
		__m256i bi = _mm256_srai_epi32(_mm256_unpackhi_epi16(s, s), 16);
		__m256 a = _mm256_mul_ps(_mm256_cvtepi32_ps(ai), m1);
		__m256 b = _mm256_mul_ps(_mm256_cvtepi32_ps(bi), m1);
		sum = _mm256_fmadd_ps(a, _mm256_loadu_ps(y + i), sum);
		sum = _mm256_fmadd_ps(b, _mm256_loadu_ps(y + i + 8), sum);
	}
	return horizontal_sum_m256(sum);
}

static float DecodeAndEuclideanAVX2(int16_t const *in, float const *y, uint32_t d) {
	__m256 m1 = _mm256_set1_ps(_15BITS_DIVISOR);
	__m256 sum = _mm256_setzero_ps();
	for (uint32_t i = 0; i < d; i += 16) {
		__m256i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm256_permute4x64_epi64(s, 0xD8);
		__m256i ai = _mm256_srai_epi32(_mm256_unpacklo_epi16(s, s), 16);
		__m256i bi = _mm256_srai_epi32(_mm256_unpackhi_epi16(s, s), 16);
		__m256 a = _mm256_mul_ps(_mm256_cvtepi32_ps(ai), m1);
		__m256 b = _mm256_mul_ps(_mm256_cvtepi32_ps(bi), m1);
		__m256 da = _mm256_sub_ps(a, _mm256_loadu_ps(y + i));
		__m256 db = _mm256_sub_ps(b, _mm256_loadu_ps(y + i + 8));
		sum = _mm256_fmadd_ps(da, da, sum);
		sum = _mm256_fmadd_ps(db, db, sum);
	}
	return horizontal_sum_m256(sum);
}
*/
import "C"

import "unsafe"

// avx2Bulk rounds d down to a multiple of 16, the AVX2 kernels' native
// width; any trailing 8-element remainder (legal per the dim%8==0
// contract) is handled by the scalar path.
func avx2Bulk(d int) int {
	return d - (d % 16)
}

func packAVX2(x []float32, out []int16) {
	n := avx2Bulk(len(x))
	if n > 0 {
		C.PackAVX2((*C.float)(unsafe.Pointer(&x[0])), (*C.int16_t)(unsafe.Pointer(&out[0])), C.uint32_t(n))
	}
	if n < len(x) {
		packGo(x[n:], out[n:])
	}
}

func unpackAVX2(q []int16, out []float32) {
	n := avx2Bulk(len(q))
	if n > 0 {
		C.UnpackAVX2((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&out[0])), C.uint32_t(n))
	}
	if n < len(q) {
		unpackGo(q[n:], out[n:])
	}
}

func decodeAndDotAVX2(q []int16, y []float32) float32 {
	n := avx2Bulk(len(q))
	var sum float32
	if n > 0 {
		sum = float32(C.DecodeAndDotAVX2((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(n)))
	}
	if n < len(q) {
		sum += decodeAndDotGo(q[n:], y[n:])
	}
	return sum
}

func decodeAndEuclideanAVX2(q []int16, y []float32) float32 {
	n := avx2Bulk(len(q))
	var sum float32
	if n > 0 {
		sum = float32(C.DecodeAndEuclideanAVX2((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(n)))
	}
	if n < len(q) {
		sum += decodeAndEuclideanGo(q[n:], y[n:])
	}
	return sum
}
