package store

// Mapper exposes read-only byte access to a persisted artifact, regardless
// of whether it is backed by a file mapping or an anonymous in-memory one.
type Mapper interface {
	// Bytes returns the full mapped region.
	Bytes() []byte
	// Mlock locks the mapped pages resident, if supported on this platform.
	Mlock() error
	// Madvise forwards hint flags to the OS for this mapping.
	Madvise(flags MadviseFlags) error
	// Clone produces a second, physically separate Mapper over the same
	// logical contents (re-maps the file, or allocates a fresh anonymous
	// mapping and copies the bytes), per the concurrency model's explicit
	// anti-memory-bank-conflict clone semantics.
	Clone() (Mapper, error)
	// Close releases the mapping.
	Close() error
}

// MadviseFlags is a bitmask of OS hints forwarded to madvise(2).
type MadviseFlags uint32

const (
	MadviseDontDump MadviseFlags = 1 << iota
	MadviseWillNeed
	MadviseHugePage
)
