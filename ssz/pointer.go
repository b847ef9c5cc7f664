package ssz

type ptrCodec[T any] struct {
	inner Codec[T]
}

// Ptr returns a codec for *T that encodes exactly like inner. A nil pointer
// encodes as the zero value of T; decoding always allocates.
func Ptr[T any](inner Codec[T]) Codec[*T] { return ptrCodec[T]{inner} }

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func (c ptrCodec[T]) IsStatic() bool { return c.inner.IsStatic() }

func (c ptrCodec[T]) FixedLen() int { return c.inner.FixedLen() }

func (c ptrCodec[T]) MaxLen() int { return c.inner.MaxLen() }

func (c ptrCodec[T]) decodeLayout() Sizer { return decodeSizer(c.inner) }

func (c ptrCodec[T]) BytesLen(v *T) int { return c.inner.BytesLen(deref(v)) }

func (c ptrCodec[T]) WriteFixed(dst []byte, v *T, offset *int) []byte {
	return c.inner.WriteFixed(dst, deref(v), offset)
}

func (c ptrCodec[T]) WriteVariable(dst []byte, v *T) []byte {
	return c.inner.WriteVariable(dst, deref(v))
}

func (c ptrCodec[T]) Write(dst []byte, v *T) []byte { return c.inner.Write(dst, deref(v)) }

func (c ptrCodec[T]) Read(fixed, variable *Reader) (*T, error) {
	v, err := c.inner.Read(fixed, variable)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c ptrCodec[T]) FromBytes(b []byte) (*T, error) {
	v, err := c.inner.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c ptrCodec[T]) Validate(v *T) error {
	if vc, ok := c.inner.(Validator[T]); ok {
		return vc.Validate(deref(v))
	}
	return nil
}
