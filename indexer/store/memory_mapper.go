package store

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MemoryWriter is the "writer-as-loader" destination: an anonymous mapping
// sized to the exact calculated artifact length, written into sequentially,
// then handed directly to a Searcher with no disk round-trip.
type MemoryWriter struct {
	data   []byte
	cursor int
}

// NewMemoryWriter allocates an anonymous mapping of exactly size bytes.
func NewMemoryWriter(size int) (*MemoryWriter, error) {
	if size <= 0 {
		return nil, errors.Wrap(ErrMalformed, "zero-size artifact")
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(err, "store: anonymous mmap")
	}
	return &MemoryWriter{data: data}, nil
}

// Write appends p at the current cursor; it never grows the mapping.
func (w *MemoryWriter) Write(p []byte) (int, error) {
	if w.cursor+len(p) > len(w.data) {
		return 0, errors.Wrap(ErrMalformed, "write exceeds preallocated artifact size")
	}
	n := copy(w.data[w.cursor:], p)
	w.cursor += n
	return n, nil
}

// Mapper hands off the backing mapping to a read-only Mapper, zero-copy.
func (w *MemoryWriter) Mapper() Mapper {
	return &memoryMapper{data: w.data}
}

type memoryMapper struct {
	data []byte
}

func (m *memoryMapper) Bytes() []byte { return m.data }

func (m *memoryMapper) Mlock() error {
	if len(m.data) == 0 {
		return nil
	}
	return unix.Mlock(m.data)
}

func (m *memoryMapper) Madvise(flags MadviseFlags) error {
	return applyMadvise(m.data, flags)
}

// Clone allocates a fresh anonymous mapping and copies the bytes, so the
// clone's storage is physically separate from its parent's, per the
// concurrency model's anti-memory-bank-conflict clone contract.
func (m *memoryMapper) Clone() (Mapper, error) {
	w, err := NewMemoryWriter(len(m.data))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(m.data); err != nil {
		return nil, err
	}
	return w.Mapper(), nil
}

func (m *memoryMapper) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
