//go:build arm64 && cgo

package codec

/*
#cgo CFLAGS: -O3
#include <arm_neon.h>
#include <stdint.h>
#include <string.h>

static const float _15BITS_MULT = 32767.f, _15BITS_DIVISOR = 1.f / 32767.f;

static void PackNEON(float const *x, int16_t *out, uint32_t d) {
	float32x4_t m1 = vdupq_n_f32(_15BITS_MULT);
	float32x4_t lo = vdupq_n_f32(-1.f), hi = vdupq_n_f32(1.f);
	for (uint32_t i = 0; i < d; i += 8) {
		float32x4_t a = vminq_f32(vmaxq_f32(vld1q_f32(x + i), lo), hi);
		float32x4_t b = vminq_f32(vmaxq_f32(vld1q_f32(x + i + 4), lo), hi);
		int32x4_t ai = vcvtnq_s32_f32(vmulq_f32(a, m1));
		int32x4_t bi = vcvtnq_s32_f32(vmulq_f32(b, m1));
		int16x4_t an = vqmovn_s32(ai);
		int16x4_t bn = vqmovn_s32(bi);
		int16x8_t packed = vcombine_s16(an, bn);
		vst1q_s16(out + i, packed);
	}
}

static void UnpackNEON(int16_t const *in, float *out, uint32_t d) {
	float32x4_t m1 = vdupq_n_f32(_15BITS_DIVISOR);
	for (uint32_t i = 0; i < d; i += 8) {
		int16x8_t s = vld1q_s16(in + i);
		int32x4_t ai = vmovl_s16(vget_low_s16(s));
		int32x4_t bi = vmovl_s16(vget_high_s16(s));
		vst1q_f32(out + i, vmulq_f32(vcvtq_f32_s32(ai), m1));
		vst1q_f32(out + i + 4, vmulq_f32(vcvtq_f32_s32(bi), m1));
	}
}

static float horizontal_sum_f32x4(float32x4_t v) {
	float32x2_t r = vadd_f32(vget_low_f32(v), vget_high_f32(v));
	r = vpadd_f32(r, r);
	return vget_lane_f32(r, 0);
}

static float DecodeAndDotNEON(int16_t const *in, float const *y, uint32_t d) {
	float32x4_t m1 = vdupq_n_f32(_15BITS_DIVISOR);
	float32x4_t sum1 = vdupq_n_f32(0), sum2 = vdupq_n_f32(0);
	for (uint32_t i = 0; i < d; i += 8) {
		int16x8_t s = vld1q_s16(in + i);
		int32x4_t ai = vmovl_s16(vget_low_s16(s));
		int32x4_t bi = vmovl_s16(vget_high_s16(s));
		float32x4_t a = vmulq_f32(vcvtq_f32_s32(ai), m1);
		float32x4_t b = vmulq_f32(vcvtq_f32_s32(bi), m1);
		sum1 = vmlaq_f32(sum1, a, vld1q_f32(y + i));
		sum2 = vmlaq_f32(sum2, b, vld1q_f32(y + i + 4));
	}
	return horizontal_sum_f32x4(vaddq_f32(sum1, sum2));
}

static float DecodeAndEuclideanNEON(int16_t const *in, float const *y, uint32_t d) {
	float32x4_t m1 = vdupq_n_f32(_15BITS_DIVISOR);
	float32x4_t sum1 = vdupq_n_f32(0), sum2 = vdupq_n_f32(0);
	for (uint32_t i = 0; i < d; i += 8) {
		int16x8_t s = vld1q_s16(in + i);
		int32x4_t ai = vmovl_s16(vget_low_s16(s));
		int32x4_t bi = vmovl_s16(vget_high_s16(s));
		float32x4_t a = vmulq_f32(vcvtq_f32_s32(ai), m1);
		float32x4_t b = vmulq_f32(vcvtq_f32_s32(bi), m1);
		float32x4_t da = vsubq_f32(a, vld1q_f32(y + i));
		float32x4_t db = vsubq_f32(b, vld1q_f32(y + i + 4));
		sum1 = vmlaq_f32(sum1, da, da);
		sum2 = vmlaq_f32(sum2, db, db);
	}
	return horizontal_sum_f32x4(vaddq_f32(sum1, sum2));
}
*/
import "C"

import "unsafe"

func packNEON(x []float32, out []int16) {
	C.PackNEON((*C.float)(unsafe.Pointer(&x[0])), (*C.int16_t)(unsafe.Pointer(&out[0])), C.uint32_t(len(x)))
}

func unpackNEON(q []int16, out []float32) {
	C.UnpackNEON((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&out[0])), C.uint32_t(len(q)))
}

func decodeAndDotNEON(q []int16, y []float32) float32 {
	return float32(C.DecodeAndDotNEON((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(len(q))))
}

func decodeAndEuclideanNEON(q []int16, y []float32) float32 {
	return float32(C.DecodeAndEuclideanNEON((*C.int16_t)(unsafe.Pointer(&q[0])), (*C.float)(unsafe.Pointer(&y[0])), C.uint32_t(len(q))))
}
