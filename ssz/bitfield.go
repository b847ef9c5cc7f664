// bitfield.go implements SSZ bitfield types: Bitlist and Bitvector.
//
// A Bitlist is a variable-length sequence of bits with a trailing length bit
// (sentinel) in the serialized form. It is used in the consensus layer for
// aggregation bitfields in attestations (e.g., which validators participated).
//
// A Bitvector is a fixed-length sequence of bits. It is used for fixed-size
// bitfields like sync committee participation.
//
// Bits are packed little-endian: bit i lives in byte i/8 at position i%8.
package ssz

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Bitfield errors.
var (
	ErrBitlistNegativeLength   = errors.New("bitfield: bitlist length must not be negative")
	ErrBitlistLengthMismatch   = errors.New("bitfield: bitlist length mismatch")
	ErrBitvectorZeroLength     = errors.New("bitfield: bitvector length must be positive")
	ErrBitvectorLengthMismatch = errors.New("bitfield: bitvector length mismatch")
)

// Bitlist is a variable-length bit array. The underlying byte slice includes
// a trailing sentinel bit to encode the length. The zero value is the empty
// bitlist.
type Bitlist struct {
	data   []byte
	length int // number of usable bits (excludes sentinel)
}

// NewBitlist creates a new Bitlist with the given number of usable bits.
// All bits are initially unset. The serialized form includes a sentinel bit.
func NewBitlist(length int) (Bitlist, error) {
	if length < 0 {
		return Bitlist{}, ErrBitlistNegativeLength
	}
	data := make([]byte, length/8+1)
	data[length/8] |= 1 << (uint(length) % 8)
	return Bitlist{data: data, length: length}, nil
}

// BitlistFromBytes creates a Bitlist from raw serialized bytes (with sentinel).
func BitlistFromBytes(data []byte) (Bitlist, error) {
	if len(data) == 0 {
		return Bitlist{}, fmt.Errorf("%w: empty bitlist has no sentinel", ErrBytesInvalid)
	}
	last := data[len(data)-1]
	if last == 0 {
		return Bitlist{}, fmt.Errorf("%w: bitlist last byte has no sentinel", ErrBytesInvalid)
	}
	length := (len(data)-1)*8 + bits.Len8(last) - 1

	cp := make([]byte, len(data))
	copy(cp, data)
	return Bitlist{data: cp, length: length}, nil
}

// raw returns the serialized form, materializing the zero value.
func (b Bitlist) raw() []byte {
	if b.data == nil {
		return []byte{0x01}
	}
	return b.data
}

// Set sets the bit at the given index. Out-of-range indices are ignored.
func (b Bitlist) Set(index int) {
	if index < 0 || index >= b.length {
		return
	}
	b.data[index/8] |= 1 << (uint(index) % 8)
}

// Clear unsets the bit at the given index.
func (b Bitlist) Clear(index int) {
	if index < 0 || index >= b.length {
		return
	}
	b.data[index/8] &^= 1 << (uint(index) % 8)
}

// Get returns true if the bit at the given index is set.
func (b Bitlist) Get(index int) bool {
	if index < 0 || index >= b.length {
		return false
	}
	return b.data[index/8]&(1<<(uint(index)%8)) != 0
}

// Len returns the number of usable bits (excludes sentinel).
func (b Bitlist) Len() int {
	return b.length
}

// Count returns the number of set bits (population count), excluding sentinel.
func (b Bitlist) Count() int {
	count := 0
	for _, v := range b.data {
		count += bits.OnesCount8(v)
	}
	if b.data != nil {
		count-- // sentinel
	}
	return count
}

// Bytes returns a copy of the underlying serialized bytes (with sentinel).
func (b Bitlist) Bytes() []byte {
	return append([]byte(nil), b.raw()...)
}

// MarshalText encodes the serialized form as 0x-prefixed hex.
func (b Bitlist) MarshalText() ([]byte, error) { return hexutil.Bytes(b.raw()).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex of the serialized form.
func (b *Bitlist) UnmarshalText(in []byte) error {
	var raw hexutil.Bytes
	if err := raw.UnmarshalText(in); err != nil {
		return err
	}
	bl, err := BitlistFromBytes(raw)
	if err != nil {
		return err
	}
	*b = bl
	return nil
}

// Or returns the union of two bitlists of equal length.
func (b Bitlist) Or(other Bitlist) (Bitlist, error) {
	if b.length != other.length {
		return Bitlist{}, ErrBitlistLengthMismatch
	}
	return Bitlist{data: combine(b.raw(), other.raw(), or), length: b.length}, nil
}

// And returns the intersection of two bitlists of equal length. The sentinel
// is set in both inputs and so survives.
func (b Bitlist) And(other Bitlist) (Bitlist, error) {
	if b.length != other.length {
		return Bitlist{}, ErrBitlistLengthMismatch
	}
	return Bitlist{data: combine(b.raw(), other.raw(), and), length: b.length}, nil
}

// Overlaps reports whether a bit is set in both bitlists. Bitlists of
// different lengths never overlap.
func (b Bitlist) Overlaps(other Bitlist) bool {
	both, err := b.And(other)
	return err == nil && !both.IsZero()
}

// Equal reports whether both bitlists have the same length and bits.
func (b Bitlist) Equal(other Bitlist) bool {
	return b.length == other.length && bytes.Equal(b.raw(), other.raw())
}

// IsZero returns true if no bits are set (excluding sentinel).
func (b Bitlist) IsZero() bool {
	return b.Count() == 0
}

// --- Bitvector ---

// Bitvector is a fixed-length bit array. Unlike Bitlist, it has no sentinel
// bit. The length is always known at construction time.
type Bitvector struct {
	data   []byte
	length int
}

// NewBitvector creates a new Bitvector with the given length. All bits start unset.
func NewBitvector(length int) (Bitvector, error) {
	if length <= 0 {
		return Bitvector{}, ErrBitvectorZeroLength
	}
	return Bitvector{
		data:   make([]byte, (length+7)/8),
		length: length,
	}, nil
}

// BitvectorFromBytes creates a Bitvector from raw bytes with the given bit
// length. Bits set beyond length are rejected.
func BitvectorFromBytes(data []byte, length int) (Bitvector, error) {
	if length <= 0 {
		return Bitvector{}, ErrBitvectorZeroLength
	}
	if len(data) != (length+7)/8 {
		return Bitvector{}, ErrBitvectorLengthMismatch
	}
	if rem := length % 8; rem != 0 && data[len(data)-1]>>rem != 0 {
		return Bitvector{}, fmt.Errorf("%w: bitvector has bits set beyond length %d", ErrBytesInvalid, length)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return Bitvector{data: cp, length: length}, nil
}

// Set sets the bit at the given index.
func (bv Bitvector) Set(index int) {
	if index < 0 || index >= bv.length {
		return
	}
	bv.data[index/8] |= 1 << (uint(index) % 8)
}

// Clear unsets the bit at the given index.
func (bv Bitvector) Clear(index int) {
	if index < 0 || index >= bv.length {
		return
	}
	bv.data[index/8] &^= 1 << (uint(index) % 8)
}

// Get returns true if the bit at the given index is set.
func (bv Bitvector) Get(index int) bool {
	if index < 0 || index >= bv.length {
		return false
	}
	return bv.data[index/8]&(1<<(uint(index)%8)) != 0
}

// Len returns the fixed bit length of the bitvector.
func (bv Bitvector) Len() int {
	return bv.length
}

// Count returns the number of set bits (population count).
func (bv Bitvector) Count() int {
	count := 0
	for _, v := range bv.data {
		count += bits.OnesCount8(v)
	}
	return count
}

// Bytes returns a copy of the underlying byte data.
func (bv Bitvector) Bytes() []byte {
	return append([]byte(nil), bv.data...)
}

// MarshalText encodes the packed bits as 0x-prefixed hex.
func (bv Bitvector) MarshalText() ([]byte, error) { return hexutil.Bytes(bv.data).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex of the packed bits. The text carries
// no bit length, so the result spans every bit of the input bytes.
// BitvectorCodec accepts it for a shorter field when the padding bits are
// clear.
func (bv *Bitvector) UnmarshalText(in []byte) error {
	var raw hexutil.Bytes
	if err := raw.UnmarshalText(in); err != nil {
		return err
	}
	if len(raw) == 0 {
		return ErrBitvectorZeroLength
	}
	*bv = Bitvector{data: raw, length: 8 * len(raw)}
	return nil
}

// Or returns the union of two bitvectors of equal length.
func (bv Bitvector) Or(other Bitvector) (Bitvector, error) {
	if bv.length != other.length {
		return Bitvector{}, ErrBitvectorLengthMismatch
	}
	return Bitvector{data: combine(bv.data, other.data, or), length: bv.length}, nil
}

// And returns the intersection of two bitvectors of equal length.
func (bv Bitvector) And(other Bitvector) (Bitvector, error) {
	if bv.length != other.length {
		return Bitvector{}, ErrBitvectorLengthMismatch
	}
	return Bitvector{data: combine(bv.data, other.data, and), length: bv.length}, nil
}

// Overlaps reports whether a bit is set in both bitvectors.
func (bv Bitvector) Overlaps(other Bitvector) bool {
	both, err := bv.And(other)
	return err == nil && !both.IsZero()
}

// Equal reports whether both bitvectors have the same length and bits.
func (bv Bitvector) Equal(other Bitvector) bool {
	return bv.length == other.length && bytes.Equal(bv.data, other.data)
}

// IsZero returns true if no bits are set.
func (bv Bitvector) IsZero() bool {
	return bv.Count() == 0
}

func or(x, y byte) byte  { return x | y }
func and(x, y byte) byte { return x & y }

// combine applies op bytewise to two packed arrays of the same size.
func combine(x, y []byte, op func(x, y byte) byte) []byte {
	out := make([]byte, len(x))
	for i := range out {
		out[i] = op(x[i], y[i])
	}
	return out
}

// --- Codecs ---

type bitlistCodec struct {
	limit int
}

// BitlistCodec returns the codec for Bitlist[limit]. Its largest encoding is
// limit+1 bits rounded up to whole bytes.
func BitlistCodec(limit int) Codec[Bitlist] {
	if limit < 0 {
		panic(fmt.Sprintf("ssz: negative bitlist limit %d", limit))
	}
	return bitlistCodec{limit: limit}
}

func (c bitlistCodec) IsStatic() bool { return false }

func (c bitlistCodec) FixedLen() int { return BytesPerLengthOffset }

func (c bitlistCodec) MaxLen() int { return c.limit/8 + 1 }

func (c bitlistCodec) BytesLen(v Bitlist) int { return len(v.raw()) }

func (c bitlistCodec) WriteFixed(dst []byte, v Bitlist, offset *int) []byte {
	return writeFixed[Bitlist](c, dst, v, offset)
}

func (c bitlistCodec) WriteVariable(dst []byte, v Bitlist) []byte { return c.Write(dst, v) }

func (c bitlistCodec) Write(dst []byte, v Bitlist) []byte { return append(dst, v.raw()...) }

func (c bitlistCodec) Read(_, variable *Reader) (Bitlist, error) {
	b := variable.Rest()
	if len(b) > c.MaxLen() {
		return Bitlist{}, fmt.Errorf("%w: bitlist of %d bytes, limit %d bits", ErrCapacityExceeded, len(b), c.limit)
	}
	bl, err := BitlistFromBytes(b)
	if err != nil {
		return Bitlist{}, err
	}
	if bl.length > c.limit {
		return Bitlist{}, fmt.Errorf("%w: bitlist of %d bits, limit %d", ErrCapacityExceeded, bl.length, c.limit)
	}
	return bl, nil
}

func (c bitlistCodec) FromBytes(b []byte) (Bitlist, error) { return fromBytesVariable[Bitlist](c, b) }

func (c bitlistCodec) Validate(v Bitlist) error {
	if v.length > c.limit {
		return fmt.Errorf("%w: bitlist of %d bits, limit %d", ErrCapacityExceeded, v.length, c.limit)
	}
	return nil
}

type bitvectorCodec struct {
	staticLayout[Bitvector]
	length int
}

// BitvectorCodec returns the codec for Bitvector[length].
func BitvectorCodec(length int) Codec[Bitvector] {
	if length <= 0 {
		panic(fmt.Sprintf("ssz: bitvector length %d must be positive", length))
	}
	return bitvectorCodec{staticLayout: staticLayout[Bitvector]{(length + 7) / 8}, length: length}
}

func (c bitvectorCodec) WriteFixed(dst []byte, v Bitvector, _ *int) []byte { return c.Write(dst, v) }

// Write appends the packed bits, zero-padded so a zero Bitvector still fills
// its slot.
func (c bitvectorCodec) Write(dst []byte, v Bitvector) []byte {
	if len(v.data) >= c.n {
		return append(dst, v.data[:c.n]...)
	}
	dst = append(dst, v.data...)
	return append(dst, make([]byte, c.n-len(v.data))...)
}

func (c bitvectorCodec) Read(fixed, _ *Reader) (Bitvector, error) {
	b, err := fixed.Next(c.n)
	if err != nil {
		return Bitvector{}, err
	}
	return BitvectorFromBytes(b, c.length)
}

func (c bitvectorCodec) FromBytes(b []byte) (Bitvector, error) {
	return fromBytesStatic[Bitvector](c, b)
}

func (c bitvectorCodec) Validate(v Bitvector) error {
	if v.length == c.length {
		return nil
	}
	// Whole-byte bitvectors from UnmarshalText.
	if v.length == 8*c.n && len(v.data) == c.n {
		if _, err := BitvectorFromBytes(v.data, c.length); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: bitvector of %d bits, want %d", ErrVectorLength, v.length, c.length)
}
