package indexer

import (
	"math"
	"unsafe"
)

// nodeHeaderSize is the fixed prefix common to both metrics: n_descendants,
// aux (the hyperplane offset for Euclidean, dot_factor for DotProduct), and
// two tagged children. Only the field's name differs semantically between
// metrics, never its bit layout.
const nodeHeaderSize = 16

// NodeStore is the flat, resizable array of fixed-size node records used
// during the build phase, addressed as base + i*nodeSize. It grows
// geometrically (§4.2: max(n, ceil(1.3*(c+1)))) and zero-initializes new
// capacity; any record pointer/view held across a growing call is invalid —
// callers must re-resolve by index, mirroring the teacher's pool.go
// growth-buffer idiom adapted from per-block allocation to a single flat
// record array.
type NodeStore struct {
	dim      int
	nodeSize int // nodeHeaderSize + dim*4 (float32 scalars, build phase)
	buf      []byte
	n        int
}

// NewNodeStore allocates an empty store for vectors of the given dimension.
func NewNodeStore(dim int) *NodeStore {
	return &NodeStore{dim: dim, nodeSize: nodeHeaderSize + dim*4}
}

// Len reports the number of records currently in use.
func (s *NodeStore) Len() int { return s.n }

// NodeSize returns the per-record byte size (build-phase, float32 scalars).
func (s *NodeStore) NodeSize() int { return s.nodeSize }

// grow ensures capacity for at least n records, per the §4.2 growth formula.
func (s *NodeStore) grow(n int) {
	need := n * s.nodeSize
	if need <= len(s.buf) {
		return
	}
	cur := len(s.buf) / s.nodeSize
	target := need
	geo := int(math.Ceil(1.3 * float64(cur+1)))
	if geo > n {
		target = geo * s.nodeSize
	}
	grown := make([]byte, target)
	copy(grown, s.buf)
	s.buf = grown
}

// Append allocates one new record, returning its index. The record's bytes
// are zero-initialized.
func (s *NodeStore) Append() int {
	idx := s.n
	s.n++
	s.grow(s.n)
	return idx
}

func (s *NodeStore) offset(i int) int { return i * s.nodeSize }

// NDescendants reads the leaf/split/root multiplexed descendant count.
func (s *NodeStore) NDescendants(i int) int32 {
	return *(*int32)(unsafe.Pointer(&s.buf[s.offset(i)]))
}

func (s *NodeStore) SetNDescendants(i int, v int32) {
	*(*int32)(unsafe.Pointer(&s.buf[s.offset(i)])) = v
}

// Aux reads the metric-dependent scalar (hyperplane offset `a`, or `dot_factor`).
func (s *NodeStore) Aux(i int) float32 {
	return *(*float32)(unsafe.Pointer(&s.buf[s.offset(i)+4]))
}

func (s *NodeStore) SetAux(i int, v float32) {
	*(*float32)(unsafe.Pointer(&s.buf[s.offset(i)+4])) = v
}

// Children reads the two tagged child pointers.
func (s *NodeStore) Children(i int) [2]Id {
	base := s.offset(i) + 8
	return [2]Id{
		Id(*(*uint32)(unsafe.Pointer(&s.buf[base]))),
		Id(*(*uint32)(unsafe.Pointer(&s.buf[base+4]))),
	}
}

func (s *NodeStore) SetChildren(i int, c0, c1 Id) {
	base := s.offset(i) + 8
	*(*uint32)(unsafe.Pointer(&s.buf[base])) = uint32(c0)
	*(*uint32)(unsafe.Pointer(&s.buf[base+4])) = uint32(c1)
}

// Vector returns a live view of the i-th record's float32 payload.
// Invalidated by any subsequent grow.
func (s *NodeStore) Vector(i int) []float32 {
	base := s.offset(i) + nodeHeaderSize
	return unsafe.Slice((*float32)(unsafe.Pointer(&s.buf[base])), s.dim)
}

// CopyNode byte-copies record src onto record dst, used for root duplication.
func (s *NodeStore) CopyNode(dst, src int) {
	copy(s.buf[s.offset(dst):s.offset(dst)+s.nodeSize], s.buf[s.offset(src):s.offset(src)+s.nodeSize])
}
