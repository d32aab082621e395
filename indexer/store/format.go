package store

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed, unpadded size of Header: four little-endian
// uint32s, no magic number (see DESIGN.md's Open Question on this).
const HeaderSize = 16

// Header is persisted at the file tail so that loading is pure pointer
// arithmetic against the mapping base, with no byte reordering and the
// first mapped byte naturally aligned for Id-sized loads.
type Header struct {
	Version     uint32
	Vlen        uint32 // dim
	IdxBlockLen uint32 // K
	NBlocks     uint32
}

// Encode writes h as 16 little-endian bytes.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Version)
	binary.LittleEndian.PutUint32(b[4:8], h.Vlen)
	binary.LittleEndian.PutUint32(b[8:12], h.IdxBlockLen)
	binary.LittleEndian.PutUint32(b[12:16], h.NBlocks)
	return b
}

// DecodeHeader reads the tail 16 bytes of src.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, errors.Wrap(ErrMalformed, "header truncated")
	}
	b := src[len(src)-HeaderSize:]
	h := Header{
		Version:     binary.LittleEndian.Uint32(b[0:4]),
		Vlen:        binary.LittleEndian.Uint32(b[4:8]),
		IdxBlockLen: binary.LittleEndian.Uint32(b[8:12]),
		NBlocks:     binary.LittleEndian.Uint32(b[12:16]),
	}
	if h.Version != 0 {
		return Header{}, errors.Wrap(ErrMalformed, "unsupported version")
	}
	return h, nil
}

// ErrMalformed is wrapped by every structural rejection this package makes.
var ErrMalformed = errors.New("store: malformed artifact")
