package store

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// FileMapper memory-maps a file read-only, grounded on the teacher's
// mmap_store.go use of github.com/edsrzf/mmap-go.
type FileMapper struct {
	path string
	f    *os.File
	data mmap.MMap
}

// OpenFile maps path read-only.
func OpenFile(path string) (*FileMapper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "store: open")
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "store: mmap")
	}
	return &FileMapper{path: path, f: f, data: m}, nil
}

func (m *FileMapper) Bytes() []byte { return m.data }

func (m *FileMapper) Mlock() error {
	if len(m.data) == 0 {
		return nil
	}
	return unix.Mlock(m.data)
}

func (m *FileMapper) Madvise(flags MadviseFlags) error {
	return applyMadvise(m.data, flags)
}

func (m *FileMapper) Clone() (Mapper, error) {
	return OpenFile(m.path)
}

func (m *FileMapper) Close() error {
	if m.data != nil {
		if err := m.data.Unmap(); err != nil {
			return err
		}
		m.data = nil
	}
	if m.f != nil {
		err := m.f.Close()
		m.f = nil
		return err
	}
	return nil
}
