//go:build amd64 && cgo

package codec

import "golang.org/x/sys/cpu"

func init() {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		packImpl, unpackImpl = packAVX512, unpackAVX512
		decodeAndDotImpl, decodeAndEuclideanImpl = decodeAndDotAVX512, decodeAndEuclideanAVX512
		packImplDesc, unpackImplDesc = "avx512", "avx512"
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		packImpl, unpackImpl = packAVX2, unpackAVX2
		decodeAndDotImpl, decodeAndEuclideanImpl = decodeAndDotAVX2, decodeAndEuclideanAVX2
		packImplDesc, unpackImplDesc = "avx2", "avx2"
	case cpu.X86.HasSSE41:
		packImpl, unpackImpl = packSSE, unpackSSE
		decodeAndDotImpl, decodeAndEuclideanImpl = decodeAndDotSSE, decodeAndEuclideanSSE
		packImplDesc, unpackImplDesc = "sse", "sse"
	}
}
