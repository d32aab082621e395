package indexer

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ic-timon/packedforest/codec"
	"github.com/ic-timon/packedforest/indexer/store"
)

// packedNodeSize is the persisted per-record size: the common 16-byte
// header plus dim int16 scalars (§3 "Node").
func packedNodeSize(dim int) int { return nodeHeaderSize + dim*2 }

func bucketBlockSize(k int) int { return k * idSize }

// artifactSize computes the exact byte length of the persisted file, so
// the in-memory writer can allocate its anonymous mapping up front.
func (idx *Indexer) artifactSize() int {
	return idx.buckets.len()*bucketBlockSize(idx.cfg.K) +
		idx.store.Len()*packedNodeSize(idx.cfg.Dim) +
		store.HeaderSize
}

// Save writes the built index to path.
func (idx *Indexer) Save(path string) error {
	if !idx.built {
		return ErrNotBuilt
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "indexer: create")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := idx.encode(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "indexer: flush")
	}
	return f.Sync()
}

// SaveMemory writes the built index into an anonymous mapping and returns
// it, ready to be handed directly to Load's in-memory path with no disk
// round-trip (§4.6 "in-memory writer").
func (idx *Indexer) SaveMemory() (store.Mapper, error) {
	if !idx.built {
		return nil, ErrNotBuilt
	}
	mw, err := store.NewMemoryWriter(idx.artifactSize())
	if err != nil {
		return nil, err
	}
	if err := idx.encode(mw); err != nil {
		return nil, err
	}
	return mw.Mapper(), nil
}

// encode writes buckets, then packed nodes, then the tail Header, in the
// exact §6.1 layout.
func (idx *Indexer) encode(w io.Writer) error {
	var scratch [4]byte
	for b := 0; b < idx.buckets.len(); b++ {
		bucket := idx.buckets.get(b)
		for _, id := range bucket {
			binary.LittleEndian.PutUint32(scratch[:], uint32(id))
			if _, err := w.Write(scratch[:]); err != nil {
				return errors.Wrap(err, "indexer: write bucket")
			}
		}
	}

	dim := idx.cfg.Dim
	packed := make([]int16, dim)
	packedBytes := make([]byte, dim*2)
	hdr := make([]byte, nodeHeaderSize)
	for i := 0; i < idx.store.Len(); i++ {
		children := idx.store.Children(i)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(idx.store.NDescendants(i)))
		binary.LittleEndian.PutUint32(hdr[4:8], float32bits(idx.store.Aux(i)))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(children[0]))
		binary.LittleEndian.PutUint32(hdr[12:16], uint32(children[1]))
		if _, err := w.Write(hdr); err != nil {
			return errors.Wrap(err, "indexer: write node header")
		}
		codec.Pack(idx.store.Vector(i), packed)
		for j, q := range packed {
			binary.LittleEndian.PutUint16(packedBytes[j*2:], uint16(q))
		}
		if _, err := w.Write(packedBytes); err != nil {
			return errors.Wrap(err, "indexer: write node vector")
		}
	}

	h := store.Header{
		Version:     0,
		Vlen:        uint32(dim),
		IdxBlockLen: uint32(idx.cfg.K),
		NBlocks:     uint32(idx.buckets.len()),
	}
	_, err := w.Write(h.Encode())
	return errors.Wrap(err, "indexer: write header")
}
