package indexer

import "github.com/pkg/errors"

// Sentinel errors identify the semantic categories a caller may need to
// branch on; wrap with errors.Wrap for context, unwrap with errors.Cause.
var (
	// ErrConfigurationInvalid: dim not a multiple of 8, K misaligned, K > dim.
	ErrConfigurationInvalid = errors.New("indexer: invalid configuration")
	// ErrMalformedArtifact: node/bucket regions that do not fit the mapping,
	// or zero roots after the scan. A header that fails to parse is reported
	// as store.ErrMalformed instead.
	ErrMalformedArtifact = errors.New("indexer: malformed artifact")
	// ErrOutOfMemory: allocation failure. Nothing in this package returns it;
	// a failed anonymous mapping comes back as the wrapped OS error.
	ErrOutOfMemory = errors.New("indexer: out of memory")
	// ErrInvariantViolation: an internal structural assertion failed.
	ErrInvariantViolation = errors.New("indexer: invariant violation")
	// ErrAlreadyBuilt: AddItem called after Build.
	ErrAlreadyBuilt = errors.New("indexer: index already built")
	// ErrNotBuilt: Save called before Build.
	ErrNotBuilt = errors.New("indexer: index not built")
	// ErrDimMismatch: a supplied vector's length does not match Config.Dim.
	ErrDimMismatch = errors.New("indexer: vector dimension mismatch")
	// ErrItemNotFound: GetItem/GetDistance referenced an id outside [0, n_items).
	ErrItemNotFound = errors.New("indexer: item not found")
)
