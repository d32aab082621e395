//go:build arm64 && cgo

package codec

import "golang.org/x/sys/cpu"

func init() {
	if cpu.ARM64.HasASIMD {
		packImpl, unpackImpl = packNEON, unpackNEON
		decodeAndDotImpl, decodeAndEuclideanImpl = decodeAndDotNEON, decodeAndEuclideanNEON
		packImplDesc, unpackImplDesc = "neon", "neon"
	}
}
