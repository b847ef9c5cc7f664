package ssz

import (
	"encoding/binary"
	"fmt"
	"iter"
)

// Homogeneous sequences share one layout. Static elements are concatenated.
// Variable elements are preceded by an offset table with one
// sequence-relative offset per element:
//
//	[offset_0 .. offset_n-1][item_0 .. item_n-1]
//
// The item count is not stored. Item 0 cannot start before the table ends,
// so the first offset divided by the offset width is the count.

// itemsLen returns the encoded size of n items yielded by items.
func itemsLen[T any](elem Encoder[T], n int, items iter.Seq[T]) int {
	if elem.IsStatic() {
		return checkedMul(n, elem.FixedLen())
	}
	total := checkedMul(n, BytesPerLengthOffset)
	for v := range items {
		total = checkedAdd(total, elem.BytesLen(v))
	}
	return total
}

// appendItems appends the bare sequence encoding of n items.
func appendItems[T any](elem Encoder[T], dst []byte, n int, items iter.Seq[T]) []byte {
	if elem.IsStatic() {
		for v := range items {
			dst = elem.Write(dst, v)
		}
		return dst
	}
	offset := checkedMul(n, BytesPerLengthOffset)
	for v := range items {
		dst = elem.WriteFixed(dst, v, &offset)
	}
	for v := range items {
		dst = elem.Write(dst, v)
	}
	return dst
}

// sequenceSizes is the layout of a sequence of n elem items. Only vectors
// (exact) of static items are static.
func sequenceSizes(elem Sizer, n int, exact bool) sizes {
	m := maxItemsLen(elem, n)
	if exact && elem.IsStatic() {
		return sizes{static: true, fixed: m, max: m}
	}
	return sizes{fixed: BytesPerLengthOffset, max: m}
}

// maxItemsLen is the largest encoding of n items.
func maxItemsLen(elem Sizer, n int) int {
	if elem.IsStatic() {
		return checkedMul(n, elem.FixedLen())
	}
	return checkedMul(n, checkedAdd(BytesPerLengthOffset, elem.MaxLen()))
}

// sequenceCount validates the shape of the bare sequence b and returns the
// number of items it holds. With exact set the sequence must hold exactly n
// items (vectors), otherwise at most n (lists).
func sequenceCount(elem Sizer, b []byte, n int, exact bool) (int, error) {
	elem = decodeSizer(elem)
	var count int
	if elem.IsStatic() {
		size := elem.FixedLen()
		if size == 0 {
			return 0, ErrZeroLengthItem
		}
		if len(b)%size != 0 {
			return 0, fmt.Errorf("%w: %d bytes is not a multiple of item size %d",
				ErrInvalidByteLength, len(b), size)
		}
		count = len(b) / size
		if exact && count != n {
			return 0, fmt.Errorf("%w: vector of %d items, want %d", ErrInvalidByteLength, count, n)
		}
	} else if len(b) > 0 {
		first, err := ReadOffset(b)
		if err != nil {
			return 0, err
		}
		if err := sanitizeOffset(first, noOffset, len(b), noOffset); err != nil {
			return 0, err
		}
		if first%BytesPerLengthOffset != 0 || first < BytesPerLengthOffset {
			return 0, fmt.Errorf("%w: %d", ErrInvalidListFixedBytesLen, first)
		}
		count = first / BytesPerLengthOffset
		if exact && count != n {
			return 0, fmt.Errorf("%w: vector of %d items, want %d", ErrInvalidListFixedBytesLen, count, n)
		}
	} else if exact && n != 0 {
		return 0, fmt.Errorf("%w: empty vector, want %d items", ErrInvalidByteLength, n)
	}
	if count > n {
		return 0, fmt.Errorf("%w: %d items, max %d", ErrCapacityExceeded, count, n)
	}
	return count, nil
}

// decodeItems decodes count items from the bare sequence b, whose shape was
// checked by sequenceCount, and hands them to emit in order. The first item
// error aborts the decode.
func decodeItems[T any](elem Decoder[T], b []byte, count int, emit func(T)) error {
	if count == 0 {
		return nil
	}
	if decodeSizer(elem).IsStatic() {
		fixed, variable := NewReader(b), NewReader(nil)
		for i := 0; i < count; i++ {
			v, err := elem.Read(fixed, variable)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			emit(v)
		}
		return nil
	}
	// Pairwise scan over the offset table. The end of the last item is the
	// end of the sequence, which acts as a trailing offset.
	table := count * BytesPerLengthOffset
	start := table
	for i := 0; i < count; i++ {
		end := len(b)
		if i+1 < count {
			end = int(binary.LittleEndian.Uint32(b[(i+1)*BytesPerLengthOffset:]))
			if err := sanitizeOffset(end, start, len(b), table); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
		}
		v, err := elem.FromBytes(b[start:end])
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		emit(v)
		start = end
	}
	return nil
}

// validateItems runs the element codec's validation over every item.
func validateItems[T any](elem Encoder[T], items iter.Seq2[int, T]) error {
	vc, ok := elem.(Validator[T])
	if !ok {
		return nil
	}
	for i, v := range items {
		if err := vc.Validate(v); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
