package ssz

import (
	"encoding/binary"
	"fmt"
)

// ContainerField is one registered field of a container over the struct type
// S. Fields are created with Field and are immutable.
type ContainerField[S any] interface {
	// Name returns the field name used in error messages.
	Name() string

	layout() Sizer
	options() fieldOptions
	bytesLen(s *S) int
	writeFixed(dst []byte, s *S, offset *int) []byte
	writeVariable(dst []byte, s *S) []byte
	read(fixed, variable *Reader, s *S) error
	fromBytes(b []byte, s *S) error
	validate(s *S) error
}

type fieldOptions struct {
	skipEncode bool
	skipDecode bool
}

// FieldOption modifies how a container field is serialized.
type FieldOption func(*fieldOptions)

// SkipEncode leaves the field out of the encoding.
func SkipEncode() FieldOption {
	return func(o *fieldOptions) { o.skipEncode = true }
}

// SkipDecode leaves the field out of decoding. It keeps its zero value.
func SkipDecode() FieldOption {
	return func(o *fieldOptions) { o.skipDecode = true }
}

type field[S, F any] struct {
	name  string
	codec Codec[F]
	get   func(*S) *F
	opts  fieldOptions
}

// Field registers a container field. get returns a pointer to the field
// inside the struct; it is used for both encoding and decoding.
func Field[S, F any](name string, c Codec[F], get func(*S) *F, opts ...FieldOption) ContainerField[S] {
	f := &field[S, F]{name: name, codec: c, get: get}
	for _, opt := range opts {
		opt(&f.opts)
	}
	return f
}

func (f *field[S, F]) Name() string { return f.name }

func (f *field[S, F]) layout() Sizer { return f.codec }

func (f *field[S, F]) options() fieldOptions { return f.opts }

func (f *field[S, F]) bytesLen(s *S) int { return f.codec.BytesLen(*f.get(s)) }

func (f *field[S, F]) writeFixed(dst []byte, s *S, offset *int) []byte {
	return f.codec.WriteFixed(dst, *f.get(s), offset)
}

func (f *field[S, F]) writeVariable(dst []byte, s *S) []byte {
	return f.codec.WriteVariable(dst, *f.get(s))
}

func (f *field[S, F]) read(fixed, variable *Reader, s *S) error {
	v, err := f.codec.Read(fixed, variable)
	if err != nil {
		return err
	}
	*f.get(s) = v
	return nil
}

func (f *field[S, F]) fromBytes(b []byte, s *S) error {
	v, err := f.codec.FromBytes(b)
	if err != nil {
		return err
	}
	*f.get(s) = v
	return nil
}

func (f *field[S, F]) validate(s *S) error {
	if vc, ok := f.codec.(Validator[F]); ok {
		return vc.Validate(*f.get(s))
	}
	return nil
}

// layout is the byte layout of a container in one direction.
type layout[S any] struct {
	fields []ContainerField[S]
	sizers []Sizer // field layouts in this direction
	static bool
	header int // fixed region length: field values or offsets
	maxLen int
	pos    []int // header position of each field
	next   []int // index of the next variable field, or -1
}

// newLayout lays out fields. The decode layout sizes each field by what its
// codec consumes on decode, which differs from the encode layout when a
// nested container skips a field in one direction.
func newLayout[S any](fields []ContainerField[S], decode bool) layout[S] {
	l := layout[S]{
		fields: fields,
		sizers: make([]Sizer, len(fields)),
		static: true,
		pos:    make([]int, len(fields)),
		next:   make([]int, len(fields)),
	}
	for i, f := range fields {
		fl := f.layout()
		if decode {
			fl = decodeSizer(fl)
		}
		l.sizers[i] = fl
		l.pos[i] = l.header
		l.header = checkedAdd(l.header, fl.FixedLen())
		if fl.IsStatic() {
			l.maxLen = checkedAdd(l.maxLen, fl.FixedLen())
		} else {
			l.static = false
			l.maxLen = checkedAdd(l.maxLen, checkedAdd(BytesPerLengthOffset, fl.MaxLen()))
		}
	}
	next := -1
	for i := len(fields) - 1; i >= 0; i-- {
		l.next[i] = next
		if !l.sizers[i].IsStatic() {
			next = i
		}
	}
	return l
}

// sizes reports the layout as seen by a parent codec.
func (l *layout[S]) sizes() sizes {
	if l.static {
		return sizes{static: true, fixed: l.header, max: l.maxLen}
	}
	return sizes{fixed: BytesPerLengthOffset, max: l.maxLen}
}

// Container is the codec for an SSZ container: a heterogeneous sequence of
// named fields laid out in registration order.
//
// Encoding writes every field's fixed part (a value or an offset) followed by
// the variable parts in the same order. Offsets are relative to the start of
// the container.
type Container[S any] struct {
	fields []ContainerField[S]
	enc    layout[S]
	dec    layout[S]
}

// NewContainer builds a container codec from its fields. Sizer methods
// describe the encoded layout, where a field skipped only on decode still
// counts. Parents that embed the container size its decode slot from the
// fields that are decoded.
func NewContainer[S any](fields ...ContainerField[S]) *Container[S] {
	var enc, dec []ContainerField[S]
	for _, f := range fields {
		if !f.options().skipEncode {
			enc = append(enc, f)
		}
		if !f.options().skipDecode {
			dec = append(dec, f)
		}
	}
	return &Container[S]{
		fields: fields,
		enc:    newLayout(enc, false),
		dec:    newLayout(dec, true),
	}
}

// FieldNames returns the registered field names in order.
func (c *Container[S]) FieldNames() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name()
	}
	return names
}

func (c *Container[S]) IsStatic() bool { return c.enc.static }

func (c *Container[S]) FixedLen() int {
	if c.enc.static {
		return c.enc.header
	}
	return BytesPerLengthOffset
}

func (c *Container[S]) MaxLen() int { return c.enc.maxLen }

func (c *Container[S]) decodeLayout() Sizer { return c.dec.sizes() }

func (c *Container[S]) BytesLen(v S) int {
	total := c.enc.header
	if c.enc.static {
		return total
	}
	for i, f := range c.enc.fields {
		if !c.enc.sizers[i].IsStatic() {
			total = checkedAdd(total, f.bytesLen(&v))
		}
	}
	return total
}

func (c *Container[S]) WriteFixed(dst []byte, v S, offset *int) []byte {
	return writeFixed[S](c, dst, v, offset)
}

func (c *Container[S]) WriteVariable(dst []byte, v S) []byte {
	return writeVariable[S](c, dst, v)
}

func (c *Container[S]) Write(dst []byte, v S) []byte {
	offset := c.enc.header
	for _, f := range c.enc.fields {
		dst = f.writeFixed(dst, &v, &offset)
	}
	for _, f := range c.enc.fields {
		dst = f.writeVariable(dst, &v)
	}
	return dst
}

// Read decodes a container from its fixed region (the field values and
// offsets) and its variable region (the field tails). A static container
// consumes its header from fixed.
func (c *Container[S]) Read(fixed, variable *Reader) (S, error) {
	var s S
	l := &c.dec
	if fixed.Remaining() < l.header {
		return s, fmt.Errorf("%w: container needs %d fixed bytes, have %d",
			ErrInvalidByteLength, l.header, fixed.Remaining())
	}
	if l.static {
		for _, f := range l.fields {
			if err := f.read(fixed, variable, &s); err != nil {
				return s, fieldError(f, err)
			}
		}
		return s, nil
	}

	header := fixed.Bytes()[:l.header]
	tail := variable.Rest()
	total := checkedAdd(l.header, len(tail))
	prev := noOffset
	for i, f := range l.fields {
		if l.sizers[i].IsStatic() {
			if err := f.read(fixed, variable, &s); err != nil {
				return s, fieldError(f, err)
			}
			continue
		}
		begin, err := fixed.ReadOffset()
		if err != nil {
			return s, fieldError(f, err)
		}
		if err := sanitizeOffset(begin, prev, total, l.header); err != nil {
			return s, fieldError(f, err)
		}
		// The field ends where the next variable field begins.
		end := total
		if j := l.next[i]; j >= 0 {
			end = int(binary.LittleEndian.Uint32(header[l.pos[j]:]))
			if err := sanitizeOffset(end, begin, total, l.header); err != nil {
				return s, fieldError(l.fields[j], err)
			}
		}
		if end-l.header > len(tail) {
			return s, fieldError(f, fmt.Errorf("%w: field ends at %d, have %d",
				ErrInvalidByteLength, end, total))
		}
		if err := f.fromBytes(tail[begin-l.header:end-l.header], &s); err != nil {
			return s, fieldError(f, err)
		}
		prev = begin
	}
	return s, nil
}

// FromBytes splits b at the header length. A static container must be given
// exactly its fixed length.
func (c *Container[S]) FromBytes(b []byte) (S, error) {
	h := c.dec.header
	if (c.dec.static && len(b) != h) || len(b) < h {
		var zero S
		return zero, fmt.Errorf("%w: got %d bytes, header is %d", ErrInvalidByteLength, len(b), h)
	}
	return c.Read(NewReader(b[:h]), NewReader(b[h:]))
}

// Validate checks the capacity bounds of every encoded field.
func (c *Container[S]) Validate(v S) error {
	for _, f := range c.enc.fields {
		if err := f.validate(&v); err != nil {
			return fieldError(f, err)
		}
	}
	return nil
}

func fieldError[S any](f ContainerField[S], err error) error {
	return fmt.Errorf("field %s: %w", f.Name(), err)
}
