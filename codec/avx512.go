//go:build amd64 && cgo

package codec

/*
#cgo CFLAGS: -mavx512f -mavx512bw -O3
#include <immintrin.h>
#include <stdint.h>
#include <string.h>

static const float _15BITS_MULT = 32767.f, _15BITS_DIVISOR = 1.f / 32767.f;

static void PackAVX512(float const *x, int16_t *out, uint32_t d) {
	__m512 m1 = _mm512_set1_ps(_15BITS_MULT);
	__m512 lo = _mm512_set1_ps(-1.f), hi = _mm512_set1_ps(1.f);
	for (uint32_t i = 0; i < d; i += 32) {
		__m512 a = _mm512_min_ps(_mm512_max_ps(_mm512_loadu_ps(x + i), lo), hi);
		__m512 b = _mm512_min_ps(_mm512_max_ps(_mm512_loadu_ps(x + i + 16), lo), hi);
		__m512i ai = _mm512_cvtps_epi32(_mm512_mul_ps(a, m1));
		__m512i bi = _mm512_cvtps_epi32(_mm512_mul_ps(b, m1));
		__m512i packed = _mm512_packs_epi32(ai, bi);
		packed = _mm512_permutexvar_epi64(_mm512_set_epi64(7, 5, 3, 1, 6, 4, 2, 0), packed);
		memcpy(out + i, &packed, sizeof(packed));
	}
}

static void UnpackAVX512(int16_t const *in, float *out, uint32_t d) {
	__m512 m1 = _mm512_set1_ps(_15BITS_DIVISOR);
	for (uint32_t i = 0; i < d; i += 32) {
		__m512i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm512_permutexvar_epi64(_mm512_set_epi64(7, 3, 6, 2, 5, 1, 4, 0), s);
		__m512i ai = _mm512_srai_epi32(_mm512_unpacklo_epi16(s, s), 16);
		__m512i bi = _mm512_srai_epi32(_mm512_unpackhi_epi16(s, s), 16);
		_mm512_storeu_ps(out + i, _mm512_mul_ps(_mm512_cvtepi32_ps(ai), m1));
		_mm512_storeu_ps(out + i + 16, _mm512_mul_ps(_mm512_cvtepi32_ps(bi), m1));
	}
}

static float DecodeAndDotAVX512(int16_t const *in, float const *y, uint32_t d) {
	__m512 m1 = _mm512_set1_ps(_15BITS_DIVISOR);
	__m512 sum = _mm512_setzero_ps();
	for (uint32_t i = 0; i < d; i += 32) {
		__m512i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm512_permutexvar_epi64(_mm512_set_epi64(7, 3, 6, 2, 5, 1, 4, 0), s);
		__m512i ai = _mm512_srai_epi32(_mm512_unpacklo_epi16(s, s), 16);
		__m512i bi = _mm512_srai_epi32(_mm512_unpackhi_epi16(s, s), 16);
		__m512 a = _mm512_mul_ps(_mm512_cvtepi32_ps(ai), m1);
		__m512 b = _mm512_mul_ps(_mm512_cvtepi32_ps(bi), m1);
		sum = _mm512_fmadd_ps(a, _mm512_loadu_ps(y + i), sum);
		sum = _mm512_fmadd_ps(b, _mm512_loadu_ps(y + i + 16), sum);
	}
	return _mm512_reduce_add_ps(sum);
}

static float DecodeAndEuclideanAVX512(int16_t const *in, float const *y, uint32_t d) {
	__m512 m1 = _mm512_set1_ps(_15BITS_DIVISOR);
	__m512 sum = _mm512_setzero_ps();
	for (uint32_t i = 0; i < d; i += 32) {
		__m512i s;
		memcpy(&s, in + i, sizeof(s));
		s = _mm512_permutexvar_epi64(_mm512_set_epi64(7, 3, 6, 2, 5, 1, 4, 0), s);
		__m512i ai = _mm512_srai_epi32(_mm512_unpacklo_epi16(s, s), 16);
		__m512i bi = _mm512_srai_epi32(_mm512_unpackhi_epi16(s, s), 16);
		__m512 a = _mm512_mul_ps(_mm512_cvtepi32_ps(ai), m1);
		__m512 b = _mm512_mul_ps(_mm512_cvtepi32_ps(bi), m1);
		__m512 da = _mm512_sub_ps(a, _mm512_loadu_ps(y + i));
		__m512 db = _mm512_sub_ps(b, _mm512_loadu_ps(y + i + 16));
		sum = _mm512_fmadd_ps(da, da, sum);
		sum = _mm512_fmadd_ps(db, db, sum);
	}
	return _mm512_reduce_add_ps(sum);
}
*/
import "C"

import "unsafe"

func avx512Bulk(d int) int {
	return d - (d % 32)
}

func packAVX512(x []float32, out []int16) {
	n := avx512Bulk(len(x))
	if n > 0 {
		C.PackAVX512((*C.float)(unsafe.Pointer(&x[0])), (*C.int16_t)(unsafe.Pointer(&out[0])), C.uint32_t(n))
	}
	if n < len(x) {
		packAVX2(x[n:], out[n:])
	}
}

func unpackAVX512(q []int16, out []float32) {
	n := avx512Bulk(len(q))
	if n > 0 {
		C.UnpackAVX512((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&out[0])), C.uint32_t(n))
	}
	if n < len(q) {
		unpackAVX2(q[n:], out[n:])
	}
}

func decodeAndDotAVX512(q []int16, y []float32) float32 {
	n := avx512Bulk(len(q))
	var sum float32
	if n > 0 {
		sum = float32(C.DecodeAndDotAVX512((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(n)))
	}
	if n < len(q) {
		sum += decodeAndDotAVX2(q[n:], y[n:])
	}
	return sum
}

func decodeAndEuclideanAVX512(q []int16, y []float32) float32 {
	n := avx512Bulk(len(q))
	var sum float32
	if n > 0 {
		sum = float32(C.DecodeAndEuclideanAVX512((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(n)))
	}
	if n < len(q) {
		sum += decodeAndEuclideanAVX2(q[n:], y[n:])
	}
	return sum
}
