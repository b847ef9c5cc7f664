package ssz

import "fmt"

// byteListCodec is List[uint8, max] over a byte slice type. Bytes are copied
// verbatim without per-item dispatch.
type byteListCodec[B ~[]byte] struct {
	max int
}

// ByteList returns the codec for a byte string of at most max bytes, such as
// an execution transaction or extra data.
func ByteList[B ~[]byte](max int) Codec[B] {
	if max < 0 {
		panic(fmt.Sprintf("ssz: negative byte list limit %d", max))
	}
	return byteListCodec[B]{max: max}
}

func (c byteListCodec[B]) IsStatic() bool { return false }

func (c byteListCodec[B]) FixedLen() int { return BytesPerLengthOffset }

func (c byteListCodec[B]) MaxLen() int { return c.max }

func (c byteListCodec[B]) BytesLen(v B) int { return len(v) }

func (c byteListCodec[B]) WriteFixed(dst []byte, v B, offset *int) []byte {
	return writeFixed[B](c, dst, v, offset)
}

func (c byteListCodec[B]) WriteVariable(dst []byte, v B) []byte { return c.Write(dst, v) }

func (c byteListCodec[B]) Write(dst []byte, v B) []byte { return append(dst, v...) }

func (c byteListCodec[B]) Read(_, variable *Reader) (B, error) {
	b := variable.Rest()
	if len(b) > c.max {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrCapacityExceeded, len(b), c.max)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return B(append([]byte(nil), b...)), nil
}

func (c byteListCodec[B]) FromBytes(b []byte) (B, error) { return fromBytesVariable[B](c, b) }

func (c byteListCodec[B]) Validate(v B) error {
	if len(v) > c.max {
		return fmt.Errorf("%w: %d bytes, max %d", ErrCapacityExceeded, len(v), c.max)
	}
	return nil
}

// byteVectorCodec is Vector[uint8, n] over a byte slice type, for lengths that
// have no ByteArray counterpart.
type byteVectorCodec[B ~[]byte] struct {
	staticLayout[B]
}

// ByteVector returns the codec for a byte string of exactly n bytes.
func ByteVector[B ~[]byte](n int) Codec[B] {
	if n <= 0 {
		panic(fmt.Sprintf("ssz: byte vector length %d must be positive", n))
	}
	return byteVectorCodec[B]{staticLayout[B]{n}}
}

func (c byteVectorCodec[B]) WriteFixed(dst []byte, v B, _ *int) []byte { return c.Write(dst, v) }

// Write appends v zero-padded or truncated to the vector length so the fixed
// region stays aligned. Marshal rejects such values beforehand.
func (c byteVectorCodec[B]) Write(dst []byte, v B) []byte {
	if len(v) >= c.n {
		return append(dst, v[:c.n]...)
	}
	dst = append(dst, v...)
	return append(dst, make([]byte, c.n-len(v))...)
}

func (c byteVectorCodec[B]) Read(fixed, _ *Reader) (B, error) {
	b, err := fixed.Next(c.n)
	if err != nil {
		return nil, err
	}
	return B(append([]byte(nil), b...)), nil
}

func (c byteVectorCodec[B]) FromBytes(b []byte) (B, error) { return fromBytesStatic[B](c, b) }

func (c byteVectorCodec[B]) Validate(v B) error {
	if len(v) != c.n {
		return fmt.Errorf("%w: %d bytes, want %d", ErrVectorLength, len(v), c.n)
	}
	return nil
}
