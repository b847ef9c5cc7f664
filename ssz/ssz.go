// Package ssz implements Simple Serialize (SSZ), the serialization format
// used by the Ethereum consensus layer. SSZ provides deterministic encoding
// with a fixed/variable byte layout: every encoding is a fixed region
// (static values inline, 4-byte offsets for variable values) followed by
// the variable region holding the variable values in declaration order.
//
// Types are described by codecs. A codec is an immutable descriptor of one
// SSZ type (for example List[uint64, 1024]) and encodes or decodes Go values
// of a matching type. Codecs compose: sequence codecs wrap element codecs,
// and container codecs are registered from an ordered list of fields.
//
// Format reference: https://github.com/ethereum/consensus-specs/blob/dev/ssz/simple-serialize.md
package ssz

import "fmt"

// BytesPerLengthOffset is the number of bytes used for each offset in
// variable-length SSZ containers (4 bytes, little-endian uint32).
const BytesPerLengthOffset = 4

// Sizer reports the type-level layout properties of an SSZ type. None of the
// results depend on a value.
type Sizer interface {
	// IsStatic reports whether every value of the type encodes to the same
	// number of bytes.
	IsStatic() bool
	// FixedLen is the encoded size for static types and the width of one
	// offset for variable types.
	FixedLen() int
	// MaxLen is an upper bound of the encoded size of any value that respects
	// the type's capacity bounds.
	MaxLen() int
}

// Encoder writes values of type T in SSZ form. All write methods append to
// dst and return the extended slice.
type Encoder[T any] interface {
	Sizer
	// BytesLen returns the exact encoded size of v.
	BytesLen(v T) int
	// WriteFixed appends the fixed-region contribution of v. Static types
	// append their bytes. Variable types append *offset and advance it by
	// BytesLen(v), so callers must invoke WriteFixed in field order.
	WriteFixed(dst []byte, v T, offset *int) []byte
	// WriteVariable appends the variable-region contribution of v. It is a
	// no-op for static types.
	WriteVariable(dst []byte, v T) []byte
	// Write appends the full encoding of v (fixed region, then tail).
	Write(dst []byte, v T) []byte
}

// Decoder reads values of type T from SSZ bytes.
type Decoder[T any] interface {
	Sizer
	// Read decodes a value from its own fixed and variable regions. Static
	// types consume FixedLen bytes from fixed. Variable types consume the
	// whole of variable.
	Read(fixed, variable *Reader) (T, error)
	// FromBytes splits b into the type's fixed and variable regions and
	// delegates to Read.
	FromBytes(b []byte) (T, error)
}

// Codec is the full SSZ contract for a type.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}

// Validator is implemented by codecs whose values carry capacity bounds.
// Write never checks bounds; Marshal does when the codec is a Validator.
type Validator[T any] interface {
	Validate(v T) error
}

// decodeLayouter is implemented by codecs that consume a different layout on
// decode than they write on encode. Containers with a field skipped in one
// direction are the source; sequences and pointers pass it on.
type decodeLayouter interface {
	decodeLayout() Sizer
}

// decodeSizer returns the layout c consumes when decoding.
func decodeSizer(c Sizer) Sizer {
	if d, ok := c.(decodeLayouter); ok {
		return d.decodeLayout()
	}
	return c
}

// sizes is a Sizer with precomputed results.
type sizes struct {
	static bool
	fixed  int
	max    int
}

func (s sizes) IsStatic() bool { return s.static }

func (s sizes) FixedLen() int { return s.fixed }

func (s sizes) MaxLen() int { return s.max }

// Marshaler is implemented by types that can serialize themselves to SSZ.
type Marshaler interface {
	MarshalSSZ() ([]byte, error)
	SizeSSZ() int
}

// Unmarshaler is implemented by types that can deserialize themselves from SSZ.
type Unmarshaler interface {
	UnmarshalSSZ([]byte) error
}

// Marshal validates v against the codec's capacity bounds and returns its
// SSZ encoding in a buffer sized exactly to BytesLen.
func Marshal[T any](c Encoder[T], v T) ([]byte, error) {
	return MarshalTo(c, make([]byte, 0, c.BytesLen(v)), v)
}

// MarshalTo is like Marshal but appends to dst.
func MarshalTo[T any](c Encoder[T], dst []byte, v T) ([]byte, error) {
	if vc, ok := c.(Validator[T]); ok {
		if err := vc.Validate(v); err != nil {
			return nil, err
		}
	}
	return c.Write(dst, v), nil
}

// Unmarshal decodes b as a value of the codec's type.
func Unmarshal[T any](c Decoder[T], b []byte) (T, error) {
	return c.FromBytes(b)
}

// Size returns the encoded size of v.
func Size[T any](c Encoder[T], v T) int {
	return c.BytesLen(v)
}

// fromBytesStatic is the FromBytes entry point shared by static codecs. The
// input must hold exactly one encoding.
func fromBytesStatic[T any](c Decoder[T], b []byte) (T, error) {
	if n := decodeSizer(c).FixedLen(); len(b) != n {
		var zero T
		return zero, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidByteLength, len(b), n)
	}
	return c.Read(NewReader(b), NewReader(nil))
}

// fromBytesVariable is the FromBytes entry point for sequence codecs whose
// encoding lives entirely in the variable region.
func fromBytesVariable[T any](c Decoder[T], b []byte) (T, error) {
	return c.Read(NewReader(nil), NewReader(b))
}

// writeFixed implements WriteFixed for any encoder.
func writeFixed[T any](c Encoder[T], dst []byte, v T, offset *int) []byte {
	if c.IsStatic() {
		return c.Write(dst, v)
	}
	dst = appendOffset(dst, *offset)
	*offset = checkedAdd(*offset, c.BytesLen(v))
	return dst
}

// writeVariable implements WriteVariable for any encoder.
func writeVariable[T any](c Encoder[T], dst []byte, v T) []byte {
	if c.IsStatic() {
		return dst
	}
	return c.Write(dst, v)
}
