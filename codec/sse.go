//go:build amd64 && cgo

package codec

/*
#cgo CFLAGS: -mssse3 -O3
#include <emmintrin.h>
#include <pmmintrin.h>
#include <stdint.h>
#include <string.h>

static const float _15BITS_MULT = 32767.f, _15BITS_DIVISOR = 1.f / 32767.f;

// grounded on original_source/src/packutils.h
static void PackSSE(float const *x, int16_t *out, uint32_t d) {
	__m128 m1 = _mm_set1_ps(_15BITS_MULT);
	__m128 lo = _mm_set1_ps(-1.f), hi = _mm_set1_ps(1.f);
	for (uint32_t i = 0; i < d; i += 8) {
		__m128 a = _mm_min_ps(_mm_max_ps(_mm_loadu_ps(x + i), lo), hi);
		__m128 b = _mm_min_ps(_mm_max_ps(_mm_loadu_ps(x + i + 4), lo), hi);
		__m128i ai = _mm_cvtps_epi32(_mm_mul_ps(a, m1));
		__m128i bi = _mm_cvtps_epi32(_mm_mul_ps(b, m1));
		__m128i packed = _mm_packs_epi32(ai, bi);
		memcpy(out + i, &packed, sizeof(packed));
	}
}

static void UnpackSSE(int16_t const *in, float *out, uint32_t d) {
	__m128 m1 = _mm_set1_ps(_15BITS_DIVISOR);
	for (uint32_t i = 0; i < d; i += 8) {
		__m128i s;
		memcpy(&s, in + i, sizeof(s));
		__m128i ai = _mm_srai_epi32(_mm_unpacklo_epi16(s, s), 16);
		__m128i bi = _mm_srai_epi32(_mm_unpackhi_epi16(s, s), 16);
		__m128 a = _mm_mul_ps(_mm_cvtepi32_ps(ai), m1);
		__m128 b = _mm_mul_ps(_mm_cvtepi32_ps(bi), m1);
		_mm_storeu_ps(out + i, a);
		_mm_storeu_ps(out + i + 4, b);
	}
}

static float horizontal_sum_m128(__m128 v) {
	v = _mm_hadd_ps(v, v);
	v = _mm_hadd_ps(v, v);
	return _mm_cvtss_f32(v);
}

static float DecodeAndDotSSE(int16_t const *in, float const *y, uint32_t d) {
	__m128 m1 = _mm_set1_ps(_15BITS_DIVISOR);
	__m128 sum1 = _mm_setzero_ps(), sum2 = _mm_setzero_ps();
	for (uint32_t i = 0; i < d; i += 8) {
		__m128i s;
		memcpy(&s, in + i, sizeof(s));
		__m128i ai = _mm_srai_epi32(_mm_unpacklo_epi16(s, s), 16);
		__m128i bi = _mm_srai_epi32(_mm_unpackhi_epi16(s, s), 16);
		__m128 a = _mm_mul_ps(_mm_cvtepi32_ps(ai), m1);
		__m128 b = _mm_mul_ps(_mm_cvtepi32_ps(bi), m1);
		__m128 ya = _mm_loadu_ps(y + i);
		__m128 yb = _mm_loadu_ps(y + i + 4);
		sum1 = _mm_add_ps(sum1, _mm_mul_ps(a, ya));
		sum2 = _mm_add_ps(sum2, _mm_mul_ps(b, yb));
	}
	return horizontal_sum_m128(_mm_add_ps(sum1, sum2));
}

static float DecodeAndEuclideanSSE(int16_t const *in, float const *y, uint32_t d) {
	__m128 m1 = _mm_set1_ps(_15BITS_DIVISOR);
	__m128 sum1 = _mm_setzero_ps(), sum2 = _mm_setzero_ps();
	for (uint32_t i = 0; i < d; i += 8) {
		__m128i s;
		memcpy(&s, in + i, sizeof(s));
		__m128i ai = _mm_srai_epi32(_mm_unpacklo_epi16(s, s), 16);
		__m128i bi = _mm_srai_epi32(_mm_unpackhi_epi16(s, s), 16);
		__m128 a = _mm_mul_ps(_mm_cvtepi32_ps(ai), m1);
		__m128 b = _mm_mul_ps(_mm_cvtepi32_ps(bi), m1);
		__m128 ya = _mm_loadu_ps(y + i);
		__m128 yb = _mm_loadu_ps(y + i + 4);
		__m128 da = _mm_sub_ps(a, ya), db = _mm_sub_ps(b, yb);
		sum1 = _mm_add_ps(sum1, _mm_mul_ps(da, da));
		sum2 = _mm_add_ps(sum2, _mm_mul_ps(db, db));
	}
	return horizontal_sum_m128(_mm_add_ps(sum1, sum2));
}
*/
import "C"

import "unsafe"

func packSSE(x []float32, out []int16) {
	C.PackSSE((*C.float)(unsafe.Pointer(&x[0])), (*C.int16_t)(unsafe.Pointer(&out[0])), C.uint32_t(len(x)))
}

func unpackSSE(q []int16, out []float32) {
	C.UnpackSSE((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&out[0])), C.uint32_t(len(q)))
}

func decodeAndDotSSE(q []int16, y []float32) float32 {
	return float32(C.DecodeAndDotSSE((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(len(q))))
}

func decodeAndEuclideanSSE(q []int16, y []float32) float32 {
	return float32(C.DecodeAndEuclideanSSE((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(len(q))))
}
