package ssz

import (
	"fmt"
	"iter"

	"github.com/benbjohnson/immutable"
)

// Persistent sequences encode exactly like List and Vector but decode into
// structurally shared immutable lists, so a large registry can be updated
// one element at a time without copying. A nil list is empty.

// Values returns an iterator over the items of l.
func Values[T any](l *immutable.List[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range All(l) {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns an iterator over the index-item pairs of l.
func All[T any](l *immutable.List[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		itr := l.Iterator()
		for !itr.Done() {
			if !yield(itr.Next()) {
				return
			}
		}
	}
}

// CollectBounded builds an immutable list from seq, failing with
// ErrCapacityExceeded once seq yields more than limit items.
func CollectBounded[T any](seq iter.Seq[T], limit int) (*immutable.List[T], error) {
	b := immutable.NewListBuilder[T]()
	for v := range seq {
		if b.Len() == limit {
			return nil, fmt.Errorf("%w: more than %d items", ErrCapacityExceeded, limit)
		}
		b.Append(v)
	}
	return b.List(), nil
}

func persistentLen[T any](l *immutable.List[T]) int {
	if l == nil {
		return 0
	}
	return l.Len()
}

type persistentCodec[T any] struct {
	elem  Codec[T]
	n     int
	exact bool // vector semantics
	enc   sizes
	dec   sizes
}

func newPersistentCodec[T any](elem Codec[T], n int, exact bool) persistentCodec[T] {
	return persistentCodec[T]{
		elem:  elem,
		n:     n,
		exact: exact,
		enc:   sequenceSizes(elem, n, exact),
		dec:   sequenceSizes(decodeSizer(elem), n, exact),
	}
}

// PersistentList returns the List[T, limit] codec over immutable lists.
func PersistentList[T any](elem Codec[T], limit int) Codec[*immutable.List[T]] {
	if limit < 0 {
		panic(fmt.Sprintf("ssz: negative list limit %d", limit))
	}
	return newPersistentCodec(elem, limit, false)
}

// PersistentVector returns the Vector[T, n] codec over immutable lists.
func PersistentVector[T any](elem Codec[T], n int) Codec[*immutable.List[T]] {
	if n <= 0 {
		panic(fmt.Sprintf("ssz: vector length %d must be positive", n))
	}
	return newPersistentCodec(elem, n, true)
}

func (c persistentCodec[T]) IsStatic() bool { return c.enc.static }

func (c persistentCodec[T]) FixedLen() int { return c.enc.fixed }

func (c persistentCodec[T]) MaxLen() int { return c.enc.max }

func (c persistentCodec[T]) decodeLayout() Sizer { return c.dec }

func (c persistentCodec[T]) BytesLen(v *immutable.List[T]) int {
	if c.enc.static {
		return c.enc.fixed
	}
	return itemsLen[T](c.elem, persistentLen(v), Values(v))
}

func (c persistentCodec[T]) WriteFixed(dst []byte, v *immutable.List[T], offset *int) []byte {
	return writeFixed[*immutable.List[T]](c, dst, v, offset)
}

func (c persistentCodec[T]) WriteVariable(dst []byte, v *immutable.List[T]) []byte {
	return writeVariable[*immutable.List[T]](c, dst, v)
}

func (c persistentCodec[T]) Write(dst []byte, v *immutable.List[T]) []byte {
	return appendItems[T](c.elem, dst, persistentLen(v), Values(v))
}

func (c persistentCodec[T]) Read(fixed, variable *Reader) (*immutable.List[T], error) {
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
	count, err := sequenceCount(c.elem, b, c.n, c.exact)
	if err != nil {
		return nil, err
	}
	builder := immutable.NewListBuilder[T]()
	if err := decodeItems[T](c.elem, b, count, builder.Append); err != nil {
		return nil, err
	}
	return builder.List(), nil
}

func (c persistentCodec[T]) FromBytes(b []byte) (*immutable.List[T], error) {
	if c.dec.static {
		return fromBytesStatic[*immutable.List[T]](c, b)
	}
	return fromBytesVariable[*immutable.List[T]](c, b)
}

func (c persistentCodec[T]) Validate(v *immutable.List[T]) error {
	n := persistentLen(v)
	switch {
	case c.exact && n != c.n:
		return fmt.Errorf("%w: %d items, want %d", ErrVectorLength, n, c.n)
	case n > c.n:
		return fmt.Errorf("%w: %d items, max %d", ErrCapacityExceeded, n, c.n)
	}
	return validateItems[T](c.elem, All(v))
}
