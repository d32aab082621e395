package codec

var (
	decodeAndDotImpl       func(q []int16, y []float32) float32
	decodeAndEuclideanImpl func(q []int16, y []float32) float32
)

func init() {
	if decodeAndDotImpl == nil {
		decodeAndDotImpl = decodeAndDotGo
	}
	if decodeAndEuclideanImpl == nil {
		decodeAndEuclideanImpl = decodeAndEuclideanGo
	}
}

// DecodeAndDot computes sum(unpack(q)[i] * y[i]) without materializing
// the unpacked vector.
func DecodeAndDot(q []int16, y []float32) float32 {
	if len(q) == 0 || len(q) != len(y) {
		return 0
	}
	return decodeAndDotImpl(q, y)
}

// DecodeAndEuclidean computes sum((unpack(q)[i] - y[i])^2) without
// materializing the unpacked vector.
func DecodeAndEuclidean(q []int16, y []float32) float32 {
	if len(q) == 0 || len(q) != len(y) {
		return 0
	}
	return decodeAndEuclideanImpl(q, y)
}

func decodeAndDotGo(q []int16, y []float32) float32 {
	var sum float32
	for i, v := range q {
		sum += (float32(v) * scalarDivisor) * y[i]
	}
	return sum
}

func decodeAndEuclideanGo(q []int16, y []float32) float32 {
	var sum float32
	for i, v := range q {
		d := (float32(v) * scalarDivisor) - y[i]
		sum += d * d
	}
	return sum
}
