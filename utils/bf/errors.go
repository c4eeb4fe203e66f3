package bf

import "errors"

var (
	// ErrConfig is returned when a filter is asked for an impossible shape:
	// zero bits, zero hash functions, zero expected names or a false positive
	// rate outside (0, 1).
	ErrConfig = errors.New("bf: invalid filter configuration")

	// ErrIndex is returned by BitSet when a bit position is out of range.
	// Seeing it from a Filter means the hash strategy and bit set disagree on m.
	ErrIndex = errors.New("bf: bit index out of range")

	// ErrNotFound is returned by Load when the snapshot file does not exist.
	ErrNotFound = errors.New("bf: snapshot not found")

	// ErrCorrupt is returned by Load when the snapshot is truncated, padded,
	// or declares a zero-sized filter.
	ErrCorrupt = errors.New("bf: snapshot corrupt")
)
