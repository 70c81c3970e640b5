package primemap

import "errors"

var (
	// ErrInvalidCapacity is returned by New for a capacity hint below 1.
	ErrInvalidCapacity = errors.New("capacity must be positive")

	// ErrCorruptStream is returned by Load when the stream header is
	// inconsistent or an entry cannot be placed.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrBadMagic is returned by ReadSnapshot when the input does not start
	// with the snapshot magic number.
	ErrBadMagic = errors.New("not a primemap snapshot")

	// ErrSnapshotVersion is returned by ReadSnapshot for an unsupported
	// snapshot format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrChecksumMismatch is returned by ReadSnapshot when the payload does
	// not match its recorded checksum.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)
