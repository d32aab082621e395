package indexer

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/ic-timon/packedforest/indexer/store"
)

// packedView interprets a mapped artifact's bytes as the bucket-block /
// packed-node regions described in §6.1, without copying.
type packedView struct {
	data       []byte
	bucketsOff int
	nodesOff   int
	dim        int
	k          int
	nblocks    int
	nnodes     int
	packedSize int
}

func parseArtifact(data []byte) (*packedView, error) {
	h, err := store.DecodeHeader(data)
	if err != nil {
		return nil, errors.Wrap(err, "indexer")
	}
	dim := int(h.Vlen)
	k := int(h.IdxBlockLen)
	nblocks := int(h.NBlocks)
	if dim <= 0 || dim%8 != 0 || k <= 0 {
		return nil, ErrMalformedArtifact
	}
	bucketRegion := nblocks * bucketBlockSize(k)
	total := len(data) - store.HeaderSize
	if total < bucketRegion {
		return nil, ErrMalformedArtifact
	}
	nodeRegion := total - bucketRegion
	pns := packedNodeSize(dim)
	if pns <= 0 || nodeRegion%pns != 0 {
		return nil, ErrMalformedArtifact
	}
	return &packedView{
		data:       data,
		bucketsOff: 0,
		nodesOff:   bucketRegion,
		dim:        dim,
		k:          k,
		nblocks:    nblocks,
		nnodes:     nodeRegion / pns,
		packedSize: pns,
	}, nil
}

func (v *packedView) nodeOffset(i int) int { return v.nodesOff + i*v.packedSize }

func (v *packedView) NDescendants(i int) int32 {
	return int32(le32(v.data[v.nodeOffset(i):]))
}

func (v *packedView) Aux(i int) float32 {
	return float32frombits(le32(v.data[v.nodeOffset(i)+4:]))
}

func (v *packedView) Children(i int) [2]Id {
	base := v.nodeOffset(i) + 8
	return [2]Id{Id(le32(v.data[base:])), Id(le32(v.data[base+4:]))}
}

// PackedVector returns a live view of the i-th node's packed int16 payload.
func (v *packedView) PackedVector(i int) []int16 {
	base := v.nodeOffset(i) + nodeHeaderSize
	return unsafe.Slice((*int16)(unsafe.Pointer(&v.data[base])), v.dim)
}

// Bucket returns a live view of the bucketIdx-th leaf bucket.
func (v *packedView) Bucket(bucketIdx int) []Id {
	base := v.bucketsOff + bucketIdx*bucketBlockSize(v.k)
	return unsafe.Slice((*Id)(unsafe.Pointer(&v.data[base])), v.k)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// discoverRoots performs the backward tail-scan of §6.1: every node whose
// n_descendants equals the first (highest-index) one found is a root; the
// "hacky fix" drops a spurious trailing entry when front and back share
// children[0].
func (v *packedView) discoverRoots() ([]Id, int) {
	if v.nnodes == 0 {
		return nil, 0
	}
	m := v.NDescendants(v.nnodes - 1)
	var roots []Id
	for i := v.nnodes - 1; i >= 0; i-- {
		if v.NDescendants(i) != m {
			break
		}
		// Item leaves also carry n_descendants == 1, colliding with m when
		// n_items == 1; roots and their tail duplicates are always appended
		// strictly after every item slot, so index < m safely excludes them.
		if i < int(m) {
			break
		}
		roots = append(roots, Id(i))
	}
	if len(roots) >= 2 {
		front, back := roots[0], roots[len(roots)-1]
		if v.Children(int(front))[0] == v.Children(int(back))[0] {
			roots = roots[:len(roots)-1]
		}
	}
	return roots, int(m)
}
