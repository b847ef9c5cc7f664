package ssz

import (
	"fmt"
	"iter"
	"slices"
)

// vectorCodec is Vector[T, n]: a sequence of exactly n items. It is static
// when its element is.
type vectorCodec[T any] struct {
	elem Codec[T]
	n    int
	enc  sizes
	dec  sizes
}

// Vector returns the codec for a fixed-length sequence of n elem values.
// SSZ has no empty vectors, so n must be positive.
func Vector[T any](elem Codec[T], n int) Codec[[]T] {
	if n <= 0 {
		panic(fmt.Sprintf("ssz: vector length %d must be positive", n))
	}
	return vectorCodec[T]{
		elem: elem,
		n:    n,
		enc:  sequenceSizes(elem, n, true),
		dec:  sequenceSizes(decodeSizer(elem), n, true),
	}
}

func (c vectorCodec[T]) IsStatic() bool { return c.enc.static }

func (c vectorCodec[T]) FixedLen() int { return c.enc.fixed }

func (c vectorCodec[T]) MaxLen() int { return c.enc.max }

func (c vectorCodec[T]) decodeLayout() Sizer { return c.dec }

// items yields exactly n values: v truncated, or padded with zero values.
// Write and BytesLen agree on a wrong-length v; Validate rejects it.
func (c vectorCodec[T]) items(v []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < c.n; i++ {
			var x T
			if i < len(v) {
				x = v[i]
			}
			if !yield(x) {
				return
			}
		}
	}
}

func (c vectorCodec[T]) BytesLen(v []T) int {
	if c.enc.static {
		return c.enc.fixed
	}
	return itemsLen[T](c.elem, c.n, c.items(v))
}

func (c vectorCodec[T]) WriteFixed(dst []byte, v []T, offset *int) []byte {
	return writeFixed[[]T](c, dst, v, offset)
}

func (c vectorCodec[T]) WriteVariable(dst []byte, v []T) []byte {
	return writeVariable[[]T](c, dst, v)
}

func (c vectorCodec[T]) Write(dst []byte, v []T) []byte {
	return appendItems[T](c.elem, dst, c.n, c.items(v))
}

// Read consumes n static items from the fixed region, or the whole variable
// region for variable items.
func (c vectorCodec[T]) Read(fixed, variable *Reader) ([]T, error) {
	var (
		b   []byte
		err error
	)
	if c.dec.static {
		if b, err = fixed.Next(c.dec.fixed); err != nil {
			return nil, err
		}
	} else {
		b = variable.Rest()
	}
	count, err := sequenceCount(c.elem, b, c.n, true)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, count)
	err = decodeItems[T](c.elem, b, count, func(v T) { items = append(items, v) })
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c vectorCodec[T]) FromBytes(b []byte) ([]T, error) {
	if c.dec.static {
		return fromBytesStatic[[]T](c, b)
	}
	return fromBytesVariable[[]T](c, b)
}

func (c vectorCodec[T]) Validate(v []T) error {
	if len(v) != c.n {
		return fmt.Errorf("%w: %d items, want %d", ErrVectorLength, len(v), c.n)
	}
	return validateItems[T](c.elem, slices.All(v))
}
