package ssz

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

type point struct {
	X, Y uint32
}

func pointCodec() *Container[point] {
	return NewContainer[point](
		Field("x", Uint32[uint32](), func(p *point) *uint32 { return &p.X }),
		Field("y", Uint32[uint32](), func(p *point) *uint32 { return &p.Y }),
	)
}

type shape struct {
	ID     uint16
	Name   []byte
	Origin point
	Path   []point
	Tags   [][]byte
}

func shapeCodec() *Container[shape] {
	return NewContainer[shape](
		Field("id", Uint16[uint16](), func(s *shape) *uint16 { return &s.ID }),
		Field("name", ByteList[[]byte](16), func(s *shape) *[]byte { return &s.Name }),
		Field[shape, point]("origin", pointCodec(), func(s *shape) *point { return &s.Origin }),
		Field("path", List[point](pointCodec(), 8), func(s *shape) *[]point { return &s.Path }),
		Field("tags", List(ByteList[[]byte](4), 4), func(s *shape) *[][]byte { return &s.Tags }),
	)
}

func TestStaticContainer(t *testing.T) {
	c := pointCodec()
	if !c.IsStatic() || c.FixedLen() != 8 || c.MaxLen() != 8 {
		t.Fatalf("layout = %v/%d/%d", c.IsStatic(), c.FixedLen(), c.MaxLen())
	}
	enc := c.Write(nil, point{X: 1, Y: 2})
	if want := []byte{1, 0, 0, 0, 2, 0, 0, 0}; !bytes.Equal(enc, want) {
		t.Fatalf("encoding = %x, want %x", enc, want)
	}
	got, err := c.FromBytes(enc)
	if err != nil || got != (point{X: 1, Y: 2}) {
		t.Fatalf("FromBytes = %+v, %v", got, err)
	}
	if _, err := c.FromBytes(enc[:7]); !errors.Is(err, ErrInvalidByteLength) {
		t.Fatalf("short err = %v, want ErrInvalidByteLength", err)
	}
	if _, err := c.FromBytes(append(enc, 0)); !errors.Is(err, ErrInvalidByteLength) {
		t.Fatalf("long err = %v, want ErrInvalidByteLength", err)
	}
}

func TestVariableContainerLayout(t *testing.T) {
	c := shapeCodec()
	if c.IsStatic() || c.FixedLen() != BytesPerLengthOffset {
		t.Fatalf("layout = %v/%d", c.IsStatic(), c.FixedLen())
	}
	// id 2 + name 4+16 + origin 8 + path 4+64 + tags 4+4*(4+4)
	if want := 2 + 20 + 8 + 68 + 36; c.MaxLen() != want {
		t.Fatalf("MaxLen = %d, want %d", c.MaxLen(), want)
	}
	td.Cmp(t, c.FieldNames(), []string{"id", "name", "origin", "path", "tags"})
}

func TestVariableContainerRoundTrip(t *testing.T) {
	c := shapeCodec()
	v := shape{
		ID:     7,
		Name:   []byte("tri"),
		Origin: point{X: 10, Y: 20},
		Path:   []point{{1, 1}, {2, 3}, {5, 8}},
		Tags:   [][]byte{[]byte("a"), nil, []byte("bcd")},
	}
	enc, err := Marshal[shape](c, v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(enc) != c.BytesLen(v) || len(enc) > c.MaxLen() {
		t.Fatalf("encoded %d bytes, BytesLen %d, MaxLen %d", len(enc), c.BytesLen(v), c.MaxLen())
	}
	// Header: id(2) name-offset(4) origin(8) path-offset(4) tags-offset(4).
	header := 22
	if off, _ := ReadOffset(enc[2:]); off != header {
		t.Fatalf("first offset = %d, want %d", off, header)
	}
	if off, _ := ReadOffset(enc[14:]); off != header+3 {
		t.Fatalf("path offset = %d, want %d", off, header+3)
	}
	got, err := c.FromBytes(enc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, v)

	again, _ := Marshal[shape](c, got)
	if !bytes.Equal(again, enc) {
		t.Fatal("re-encoding a decoded value changed its bytes")
	}
}

func TestContainerNestedInList(t *testing.T) {
	c := List[shape](shapeCodec(), 3)
	v := []shape{
		{ID: 1, Name: []byte("a")},
		{ID: 2, Path: []point{{9, 9}}},
	}
	enc, err := Marshal[[]shape](c, v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := c.FromBytes(enc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, v)
}

func TestContainerErrorsNameField(t *testing.T) {
	c := shapeCodec()
	enc, _ := Marshal[shape](c, shape{Path: []point{{1, 2}}, Tags: [][]byte{{1}}})
	// Make the path tail one byte short of a whole point.
	bad := append([]byte(nil), enc...)
	tagsOff, _ := ReadOffset(bad[18:])
	bad[18] = byte(tagsOff - 1)

	_, err := c.FromBytes(bad)
	if !errors.Is(err, ErrInvalidByteLength) {
		t.Fatalf("err = %v, want ErrInvalidByteLength", err)
	}
	if !strings.Contains(err.Error(), "field path") {
		t.Fatalf("error %q does not name the field", err)
	}
}

func TestContainerOffsetErrors(t *testing.T) {
	c := shapeCodec()
	enc, _ := Marshal[shape](c, shape{Name: []byte("ab"), Path: []point{{1, 2}}})
	tests := []struct {
		name  string
		at    int
		value byte
		want  error
	}{
		{"first offset into header", 2, 21, ErrOffsetIntoFixedPortion},
		{"first offset gap", 2, 23, ErrOffsetSkipsVariableBytes},
		{"decreasing", 18, 23, ErrOffsetsDecreasing},
		{"out of bounds", 18, 200, ErrOffsetOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := append([]byte(nil), enc...)
			bad[tt.at] = tt.value
			if _, err := c.FromBytes(bad); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContainerValidateNamesField(t *testing.T) {
	_, err := Marshal[shape](shapeCodec(), shape{Name: make([]byte, 17)})
	if !errors.Is(err, ErrCapacityExceeded) || !strings.Contains(err.Error(), "field name") {
		t.Fatalf("err = %v, want ErrCapacityExceeded on field name", err)
	}
}

// --- Field options ---

type cached struct {
	Value uint64
	Note  []byte
	Hits  uint32 // derived, never serialized
}

func TestSkipFields(t *testing.T) {
	c := NewContainer[cached](
		Field("value", Uint64[uint64](), func(v *cached) *uint64 { return &v.Value }),
		Field("note", ByteList[[]byte](8), func(v *cached) *[]byte { return &v.Note }),
		Field("hits", Uint32[uint32](), func(v *cached) *uint32 { return &v.Hits }, SkipEncode(), SkipDecode()),
	)
	v := cached{Value: 5, Note: []byte{1}, Hits: 99}
	enc, err := Marshal[cached](c, v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := []byte{5, 0, 0, 0, 0, 0, 0, 0, 12, 0, 0, 0, 1}; !bytes.Equal(enc, want) {
		t.Fatalf("encoding = %x, want %x", enc, want)
	}
	got, err := c.FromBytes(enc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, cached{Value: 5, Note: []byte{1}})
}

func TestSkipDecodeOnly(t *testing.T) {
	c := NewContainer[point](
		Field("x", Uint32[uint32](), func(p *point) *uint32 { return &p.X }),
		Field("y", Uint32[uint32](), func(p *point) *uint32 { return &p.Y }, SkipDecode()),
	)
	// Encoding keeps both fields; decoding reads only x.
	if n := len(c.Write(nil, point{1, 2})); n != 8 {
		t.Fatalf("encoded %d bytes, want 8", n)
	}
	got, err := c.FromBytes([]byte{1, 0, 0, 0})
	if err != nil || got != (point{X: 1}) {
		t.Fatalf("FromBytes = %+v, %v", got, err)
	}
}

// halfPointCodec writes both coordinates but decodes only x.
func halfPointCodec() *Container[point] {
	return NewContainer[point](
		Field("x", Uint32[uint32](), func(p *point) *uint32 { return &p.X }),
		Field("y", Uint32[uint32](), func(p *point) *uint32 { return &p.Y }, SkipDecode()),
	)
}

type tagged struct {
	In   point
	B    uint8
	Data []uint8
}

func TestSkipDecodeNested(t *testing.T) {
	static := NewContainer[tagged](
		Field[tagged, point]("in", halfPointCodec(), func(v *tagged) *point { return &v.In }),
		Field("b", Uint8[uint8](), func(v *tagged) *uint8 { return &v.B }),
	)
	if static.FixedLen() != 9 {
		t.Fatalf("encode FixedLen = %d, want 9", static.FixedLen())
	}
	got, err := static.FromBytes([]byte{1, 0, 0, 0, 7})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, tagged{In: point{X: 1}, B: 7})

	// The encoded layout is not what the decoder consumes.
	if _, err := static.FromBytes([]byte{1, 0, 0, 0, 2, 0, 0, 0, 7}); !errors.Is(err, ErrInvalidByteLength) {
		t.Fatalf("encode-layout input: err = %v, want ErrInvalidByteLength", err)
	}

	variable := NewContainer[tagged](
		Field[tagged, point]("in", halfPointCodec(), func(v *tagged) *point { return &v.In }),
		Field("data", List(Uint8[uint8](), 4), func(v *tagged) *[]uint8 { return &v.Data }),
	)
	// Decode header: 4 bytes of x, then the offset 8.
	got, err = variable.FromBytes([]byte{5, 0, 0, 0, 8, 0, 0, 0, 0xaa, 0xbb})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, tagged{In: point{X: 5}, Data: []uint8{0xaa, 0xbb}})
	if _, err := variable.FromBytes([]byte{5, 0, 0, 0, 6, 0, 0, 0, 12, 0, 0, 0}); !errors.Is(err, ErrOffsetIntoFixedPortion) {
		t.Fatalf("encode-layout offset: err = %v, want ErrOffsetIntoFixedPortion", err)
	}
}

func TestSkipDecodeInSequences(t *testing.T) {
	u32s := func(vs ...byte) []byte {
		var b []byte
		for _, v := range vs {
			b = append(b, v, 0, 0, 0)
		}
		return b
	}

	vec := Vector[point](halfPointCodec(), 2)
	if vec.FixedLen() != 16 {
		t.Fatalf("vector encode FixedLen = %d, want 16", vec.FixedLen())
	}
	got, err := vec.FromBytes(u32s(1, 2))
	if err != nil {
		t.Fatalf("vector FromBytes: %v", err)
	}
	td.Cmp(t, got, []point{{X: 1}, {X: 2}})
	if _, err := vec.FromBytes(u32s(1, 2, 3, 4)); !errors.Is(err, ErrInvalidByteLength) {
		t.Fatalf("vector of encode-layout items: err = %v, want ErrInvalidByteLength", err)
	}

	list := List[point](halfPointCodec(), 4)
	gotList, err := list.FromBytes(u32s(1, 2, 3))
	if err != nil {
		t.Fatalf("list FromBytes: %v", err)
	}
	td.Cmp(t, gotList, []point{{X: 1}, {X: 2}, {X: 3}})

	plist := PersistentList[point](halfPointCodec(), 4)
	pl, err := plist.FromBytes(u32s(1, 2, 3))
	if err != nil {
		t.Fatalf("persistent FromBytes: %v", err)
	}
	if pl.Len() != 3 {
		t.Fatalf("persistent list has %d items, want 3", pl.Len())
	}

	ptr := Ptr[point](halfPointCodec())
	p, err := ptr.FromBytes(u32s(9))
	if err != nil || *p != (point{X: 9}) {
		t.Fatalf("Ptr FromBytes = %v, %v", p, err)
	}

	// A pointer inside a parent is sized by the decode layout too.
	type boxed struct {
		B  uint8
		In *point
	}
	parent := NewContainer[boxed](
		Field("b", Uint8[uint8](), func(v *boxed) *uint8 { return &v.B }),
		Field[boxed, *point]("in", ptr, func(v *boxed) **point { return &v.In }),
	)
	gotBoxed, err := parent.FromBytes(append([]byte{1}, u32s(9)...))
	if err != nil {
		t.Fatalf("parent FromBytes: %v", err)
	}
	if gotBoxed.B != 1 || gotBoxed.In == nil || *gotBoxed.In != (point{X: 9}) {
		t.Fatalf("parent FromBytes = %+v", gotBoxed)
	}
}

// --- Pointer wrapper ---

func TestPtr(t *testing.T) {
	c := Ptr[point](pointCodec())
	if !c.IsStatic() || c.FixedLen() != 8 {
		t.Fatalf("layout = %v/%d", c.IsStatic(), c.FixedLen())
	}
	if enc := c.Write(nil, nil); !bytes.Equal(enc, make([]byte, 8)) {
		t.Fatalf("nil pointer encoding = %x", enc)
	}
	got, err := c.FromBytes(c.Write(nil, &point{3, 4}))
	if err != nil || got == nil || *got != (point{3, 4}) {
		t.Fatalf("FromBytes = %v, %v", got, err)
	}

	lc := Ptr(List(Uint8[uint8](), 2))
	if _, err := Marshal[*[]uint8](lc, &[]uint8{1, 2, 3}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Marshal err = %v, want ErrCapacityExceeded", err)
	}
}
