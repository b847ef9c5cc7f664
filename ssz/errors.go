package ssz

import "errors"

// Decode errors. Every decode failure wraps exactly one of these, so callers
// classify failures with errors.Is.
var (
	// ErrInvalidByteLength means fewer (or, for a static entry point, more)
	// bytes were available than the type requires.
	ErrInvalidByteLength = errors.New("ssz: invalid byte length")
	// ErrBytesInvalid means the bytes do not form a legal instance, such as an
	// out-of-range boolean or a missing bitlist sentinel.
	ErrBytesInvalid = errors.New("ssz: bytes invalid")
	// ErrZeroLengthItem means a static element of length zero was used as a
	// divisor.
	ErrZeroLengthItem = errors.New("ssz: zero length item")
	// ErrInvalidListFixedBytesLen means an offset table is not a positive
	// multiple of the offset width.
	ErrInvalidListFixedBytesLen = errors.New("ssz: invalid list fixed bytes length")
	// ErrCapacityExceeded means an item or bit count is above the type's
	// capacity bound.
	ErrCapacityExceeded = errors.New("ssz: capacity exceeded")

	// ErrOffsetIntoFixedPortion means an offset points inside the fixed region.
	ErrOffsetIntoFixedPortion = errors.New("ssz: offset into fixed portion")
	// ErrOffsetSkipsVariableBytes means the first offset leaves a gap after the
	// fixed region.
	ErrOffsetSkipsVariableBytes = errors.New("ssz: offset skips variable bytes")
	// ErrOffsetOutOfBounds means an offset points past the end of its region.
	ErrOffsetOutOfBounds = errors.New("ssz: offset out of bounds")
	// ErrOffsetsDecreasing means an offset is smaller than its predecessor.
	ErrOffsetsDecreasing = errors.New("ssz: offsets are decreasing")
)

// ErrVectorLength is returned by Marshal for a vector value whose length is
// not the vector's length.
var ErrVectorLength = errors.New("ssz: vector length mismatch")

// ErrLengthOverflow is the panic value raised when summing type lengths
// overflows. It indicates a broken type configuration, not bad input, and is
// never returned as an error.
var ErrLengthOverflow = errors.New("ssz: length overflow")
