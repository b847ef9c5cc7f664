package ssz

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// staticLayout provides the value-independent half of the codec contract for
// leaf types of a fixed size n.
type staticLayout[T any] struct {
	n int
}

func (l staticLayout[T]) IsStatic() bool { return true }

func (l staticLayout[T]) FixedLen() int { return l.n }

func (l staticLayout[T]) MaxLen() int { return l.n }

func (l staticLayout[T]) BytesLen(T) int { return l.n }

func (l staticLayout[T]) WriteVariable(dst []byte, _ T) []byte { return dst }

// --- Unsigned integers ---

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// uintCodec encodes fixed-width unsigned integers little-endian.
type uintCodec[T unsigned] struct {
	staticLayout[T]
}

// Uint8 returns the codec for uint8 and types derived from it.
func Uint8[T ~uint8]() Codec[T] { return uintCodec[T]{staticLayout[T]{1}} }

// Uint16 returns the codec for uint16 and types derived from it.
func Uint16[T ~uint16]() Codec[T] { return uintCodec[T]{staticLayout[T]{2}} }

// Uint32 returns the codec for uint32 and types derived from it.
func Uint32[T ~uint32]() Codec[T] { return uintCodec[T]{staticLayout[T]{4}} }

// Uint64 returns the codec for uint64 and types derived from it, such as
// slots, epochs and validator indices.
func Uint64[T ~uint64]() Codec[T] { return uintCodec[T]{staticLayout[T]{8}} }

func (c uintCodec[T]) WriteFixed(dst []byte, v T, _ *int) []byte { return c.Write(dst, v) }

func (c uintCodec[T]) Write(dst []byte, v T) []byte {
	switch c.n {
	case 1:
		return append(dst, byte(v))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case 4:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	default:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	}
}

func (c uintCodec[T]) Read(fixed, _ *Reader) (T, error) {
	b, err := fixed.Next(c.n)
	if err != nil {
		return 0, err
	}
	switch c.n {
	case 1:
		return T(b[0]), nil
	case 2:
		return T(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return T(binary.LittleEndian.Uint32(b)), nil
	default:
		return T(binary.LittleEndian.Uint64(b)), nil
	}
}

func (c uintCodec[T]) FromBytes(b []byte) (T, error) { return fromBytesStatic[T](c, b) }

// --- Boolean ---

type boolCodec struct {
	staticLayout[bool]
}

// Bool returns the codec for booleans: one byte, 0x00 or 0x01. Any other
// byte fails to decode.
func Bool() Codec[bool] { return boolCodec{staticLayout[bool]{1}} }

func (c boolCodec) WriteFixed(dst []byte, v bool, _ *int) []byte { return c.Write(dst, v) }

func (boolCodec) Write(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func (boolCodec) Read(fixed, _ *Reader) (bool, error) {
	b, err := fixed.Next(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: out-of-range boolean 0x%02x", ErrBytesInvalid, b[0])
	}
}

func (c boolCodec) FromBytes(b []byte) (bool, error) { return fromBytesStatic[bool](c, b) }

// --- 128 and 256-bit integers ---

// Uint128 is a 128-bit unsigned integer as little-endian 64-bit limbs.
type Uint128 struct {
	Lo, Hi uint64
}

type uint128Codec struct {
	staticLayout[Uint128]
}

// Uint128Codec returns the codec for 16-byte little-endian integers.
func Uint128Codec() Codec[Uint128] { return uint128Codec{staticLayout[Uint128]{16}} }

func (c uint128Codec) WriteFixed(dst []byte, v Uint128, _ *int) []byte { return c.Write(dst, v) }

func (uint128Codec) Write(dst []byte, v Uint128) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, v.Lo)
	return binary.LittleEndian.AppendUint64(dst, v.Hi)
}

func (uint128Codec) Read(fixed, _ *Reader) (Uint128, error) {
	b, err := fixed.Next(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

func (c uint128Codec) FromBytes(b []byte) (Uint128, error) {
	return fromBytesStatic[Uint128](c, b)
}

type uint256Codec struct {
	staticLayout[uint256.Int]
}

// Uint256 returns the codec for 32-byte little-endian integers backed by
// holiman/uint256.
func Uint256() Codec[uint256.Int] { return uint256Codec{staticLayout[uint256.Int]{32}} }

func (c uint256Codec) WriteFixed(dst []byte, v uint256.Int, _ *int) []byte { return c.Write(dst, v) }

// Write appends the limbs least significant first, which is the SSZ byte
// order of a little-endian 256-bit integer.
func (uint256Codec) Write(dst []byte, v uint256.Int) []byte {
	for i := 0; i < 4; i++ {
		dst = binary.LittleEndian.AppendUint64(dst, v[i])
	}
	return dst
}

func (uint256Codec) Read(fixed, _ *Reader) (uint256.Int, error) {
	var z uint256.Int
	b, err := fixed.Next(32)
	if err != nil {
		return z, err
	}
	for i := 0; i < 4; i++ {
		z[i] = binary.LittleEndian.Uint64(b[i*8 : (i+1)*8])
	}
	return z, nil
}

func (c uint256Codec) FromBytes(b []byte) (uint256.Int, error) {
	return fromBytesStatic[uint256.Int](c, b)
}

// --- Fixed-size byte arrays ---

// ByteArray is the set of fixed-size byte array types with a static SSZ
// encoding: fork versions, roots, addresses, BLS keys and signatures, blooms
// and blobs, including named types such as common.Hash.
type ByteArray interface {
	~[4]byte | ~[8]byte | ~[20]byte | ~[32]byte | ~[48]byte | ~[96]byte | ~[256]byte | ~[131072]byte
}

type arrayCodec[A ByteArray] struct {
	staticLayout[A]
}

// FixedBytes returns the pass-through codec for a byte array type.
func FixedBytes[A ByteArray]() Codec[A] {
	var a A
	return arrayCodec[A]{staticLayout[A]{len(a)}}
}

// Hash returns the codec for 32-byte roots.
func Hash() Codec[common.Hash] { return FixedBytes[common.Hash]() }

// Address returns the codec for 20-byte execution addresses.
func Address() Codec[common.Address] { return FixedBytes[common.Address]() }

func (c arrayCodec[A]) WriteFixed(dst []byte, v A, _ *int) []byte { return c.Write(dst, v) }

// Write appends the array contents. Go generics cannot slice a type set of
// differently sized arrays, hence unsafe.Slice over the first element.
func (c arrayCodec[A]) Write(dst []byte, v A) []byte {
	return append(dst, unsafe.Slice(&v[0], len(v))...)
}

func (c arrayCodec[A]) Read(fixed, _ *Reader) (A, error) {
	var a A
	b, err := fixed.Next(len(a))
	if err != nil {
		return a, err
	}
	copy(unsafe.Slice(&a[0], len(a)), b)
	return a, nil
}

func (c arrayCodec[A]) FromBytes(b []byte) (A, error) { return fromBytesStatic[A](c, b) }
