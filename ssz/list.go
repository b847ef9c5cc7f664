package ssz

import (
	"fmt"
	"slices"
)

// listCodec is List[T, limit]: a variable-length sequence of at most limit
// items.
type listCodec[T any] struct {
	elem   Codec[T]
	limit  int
	maxLen int
	dec    sizes
}

// List returns the codec for a bounded list of elem values. Decoding rejects
// more than limit items; Marshal rejects them on encode.
func List[T any](elem Codec[T], limit int) Codec[[]T] {
	if limit < 0 {
		panic(fmt.Sprintf("ssz: negative list limit %d", limit))
	}
	return listCodec[T]{
		elem:   elem,
		limit:  limit,
		maxLen: maxItemsLen(elem, limit),
		dec:    sequenceSizes(decodeSizer(elem), limit, false),
	}
}

func (c listCodec[T]) IsStatic() bool { return false }

func (c listCodec[T]) FixedLen() int { return BytesPerLengthOffset }

func (c listCodec[T]) MaxLen() int { return c.maxLen }

func (c listCodec[T]) decodeLayout() Sizer { return c.dec }

func (c listCodec[T]) BytesLen(v []T) int {
	return itemsLen[T](c.elem, len(v), slices.Values(v))
}

func (c listCodec[T]) WriteFixed(dst []byte, v []T, offset *int) []byte {
	return writeFixed[[]T](c, dst, v, offset)
}

func (c listCodec[T]) WriteVariable(dst []byte, v []T) []byte { return c.Write(dst, v) }

func (c listCodec[T]) Write(dst []byte, v []T) []byte {
	return appendItems[T](c.elem, dst, len(v), slices.Values(v))
}

// Read decodes the whole variable region. An empty region is an empty list,
// returned as nil.
func (c listCodec[T]) Read(_, variable *Reader) ([]T, error) {
	b := variable.Rest()
	count, err := sequenceCount(c.elem, b, c.limit, false)
	if err != nil || count == 0 {
		return nil, err
	}
	items := make([]T, 0, count)
	err = decodeItems[T](c.elem, b, count, func(v T) { items = append(items, v) })
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c listCodec[T]) FromBytes(b []byte) ([]T, error) { return fromBytesVariable[[]T](c, b) }

func (c listCodec[T]) Validate(v []T) error {
	if len(v) > c.limit {
		return fmt.Errorf("%w: %d items, max %d", ErrCapacityExceeded, len(v), c.limit)
	}
	return validateItems[T](c.elem, slices.All(v))
}
