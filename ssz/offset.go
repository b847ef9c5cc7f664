package ssz

import (
	"encoding/binary"
	"fmt"
	"math"
)

// noOffset marks an absent previous offset or an unknown fixed-region length
// in sanitizeOffset.
const noOffset = -1

// Reader is a read cursor over a borrowed byte region. It never copies or
// retains the region beyond the decode call that created it.
type Reader struct {
	buf []byte
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) }

// Bytes returns the unread bytes without consuming them.
func (r *Reader) Bytes() []byte { return r.buf }

// Next consumes and returns the next n bytes.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidByteLength, n, len(r.buf))
	}
	b := r.buf[:n:n]
	r.buf = r.buf[n:]
	return b, nil
}

// Rest consumes and returns every unread byte.
func (r *Reader) Rest() []byte {
	b := r.buf
	r.buf = r.buf[len(r.buf):]
	return b
}

// ReadOffset consumes a 4-byte little-endian offset.
func (r *Reader) ReadOffset() (int, error) {
	off, err := ReadOffset(r.buf)
	if err != nil {
		return 0, err
	}
	r.buf = r.buf[BytesPerLengthOffset:]
	return off, nil
}

// ReadOffset decodes the 4-byte little-endian offset at the start of b.
func ReadOffset(b []byte) (int, error) {
	if len(b) < BytesPerLengthOffset {
		return 0, fmt.Errorf("%w: offset needs %d bytes, have %d",
			ErrInvalidByteLength, BytesPerLengthOffset, len(b))
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

// appendOffset appends off as a 4-byte little-endian offset. An offset that
// does not fit in 32 bits means the value exceeds every SSZ capacity and is
// treated as a programming fault.
func appendOffset(dst []byte, off int) []byte {
	if off < 0 || off > math.MaxUint32 {
		panic(fmt.Sprintf("ssz: offset %d does not fit in %d bytes", off, BytesPerLengthOffset))
	}
	return binary.LittleEndian.AppendUint32(dst, uint32(off))
}

// sanitizeOffset checks an offset read from untrusted input.
//
// fixedLen is the length of the fixed region the offset must not point into;
// when previous is noOffset the offset is the first one and must point
// exactly at the end of the fixed region. regionLen is the total length the
// offset is relative to.
func sanitizeOffset(offset, previous, regionLen, fixedLen int) error {
	switch {
	case fixedLen != noOffset && offset < fixedLen:
		return fmt.Errorf("%w: offset %d, fixed length %d", ErrOffsetIntoFixedPortion, offset, fixedLen)
	case previous == noOffset && fixedLen != noOffset && offset != fixedLen:
		return fmt.Errorf("%w: offset %d, fixed length %d", ErrOffsetSkipsVariableBytes, offset, fixedLen)
	case offset > regionLen:
		return fmt.Errorf("%w: offset %d, length %d", ErrOffsetOutOfBounds, offset, regionLen)
	case previous != noOffset && offset < previous:
		return fmt.Errorf("%w: offset %d after %d", ErrOffsetsDecreasing, offset, previous)
	}
	return nil
}

// checkedAdd returns a+b, panicking with ErrLengthOverflow on overflow.
func checkedAdd(a, b int) int {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		panic(fmt.Errorf("%w: %d + %d", ErrLengthOverflow, a, b))
	}
	return a + b
}

// checkedMul returns a*b for non-negative operands, panicking with
// ErrLengthOverflow on overflow.
func checkedMul(a, b int) int {
	if a < 0 || b < 0 {
		panic(fmt.Errorf("%w: negative length %d * %d", ErrLengthOverflow, a, b))
	}
	if a != 0 && b > math.MaxInt/a {
		panic(fmt.Errorf("%w: %d * %d", ErrLengthOverflow, a, b))
	}
	return a * b
}
