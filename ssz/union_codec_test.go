package ssz

import (
	"bytes"
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func testUnion(t *testing.T) *UnionCodec {
	t.Helper()
	uc, err := NewUnionCodec(
		NoneVariant(),
		Variant(1, "uint64", Uint64[uint64]()),
		Variant(2, "bytes", ByteList[[]byte](8)),
	)
	if err != nil {
		t.Fatalf("NewUnionCodec: %v", err)
	}
	return uc
}

// --- Registry tests ---

func TestUnionRegistry(t *testing.T) {
	r := NewUnionTypeRegistry()
	if err := r.Register(Variant(3, "flag", Bool())); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(Variant(1, "u8", Uint8[uint8]())); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if r.Count() != 2 {
		t.Fatalf("Count = %d, want 2", r.Count())
	}
	if got := r.Selectors(); !bytes.Equal(got, []byte{1, 3}) {
		t.Fatalf("Selectors = %v, want [1 3]", got)
	}
	v, err := r.LookupByName("flag")
	if err != nil || v.Selector != 3 {
		t.Fatalf("LookupByName = %+v, %v", v, err)
	}
	if _, err := r.Lookup(9); !errors.Is(err, ErrUnionSelectorUnknown) {
		t.Fatalf("Lookup(9) err = %v, want ErrUnionSelectorUnknown", err)
	}
}

func TestUnionRegistryErrors(t *testing.T) {
	r := NewUnionTypeRegistry()
	_ = r.Register(Variant(1, "a", Bool()))
	if err := r.Register(Variant(1, "b", Bool())); !errors.Is(err, ErrUnionSelectorDuplicate) {
		t.Fatalf("duplicate err = %v", err)
	}
	if err := r.Register(Variant(128, "c", Bool())); !errors.Is(err, ErrUnionSelectorReserved) {
		t.Fatalf("reserved err = %v", err)
	}
	if err := r.Register(UnionVariant{Selector: 4}); !errors.Is(err, ErrUnionNilCodec) {
		t.Fatalf("nil codec err = %v", err)
	}
	if _, err := NewUnionCodec(); !errors.Is(err, ErrUnionRegistryEmpty) {
		t.Fatalf("empty union err = %v", err)
	}
}

// --- Codec tests ---

func TestUnionLayout(t *testing.T) {
	uc := testUnion(t)
	if uc.IsStatic() || uc.FixedLen() != BytesPerLengthOffset || uc.MaxLen() != 9 {
		t.Fatalf("layout = %v/%d/%d", uc.IsStatic(), uc.FixedLen(), uc.MaxLen())
	}
}

func TestUnionRoundTrip(t *testing.T) {
	uc := testUnion(t)
	tests := []struct {
		name string
		v    UnionValue
		enc  []byte
	}{
		{"none", UnionValue{}, []byte{0}},
		{"uint64", UnionValue{Selector: 1, Value: uint64(258)}, []byte{1, 2, 1, 0, 0, 0, 0, 0, 0}},
		{"bytes", UnionValue{Selector: 2, Value: []byte{0xca, 0xfe}}, []byte{2, 0xca, 0xfe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Marshal[UnionValue](uc, tt.v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !bytes.Equal(enc, tt.enc) {
				t.Fatalf("encoding = %x, want %x", enc, tt.enc)
			}
			if n := uc.BytesLen(tt.v); n != len(enc) {
				t.Fatalf("BytesLen = %d, want %d", n, len(enc))
			}
			got, err := uc.FromBytes(enc)
			if err != nil {
				t.Fatalf("FromBytes: %v", err)
			}
			td.Cmp(t, got, tt.v)
		})
	}
	if !(UnionValue{}).IsNone() {
		t.Fatal("zero UnionValue should be None")
	}
}

func TestUnionDecodeErrors(t *testing.T) {
	uc := testUnion(t)
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrInvalidByteLength},
		{"unknown selector", []byte{7, 1}, ErrBytesInvalid},
		{"none with body", []byte{0, 1}, ErrBytesInvalid},
		{"short uint64", []byte{1, 1, 2}, ErrInvalidByteLength},
		{"bytes too long", append([]byte{2}, make([]byte, 9)...), ErrCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.FromBytes(tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := uc.FromBytes([]byte{7}); !errors.Is(err, ErrUnionSelectorUnknown) {
		t.Fatalf("unknown selector should also match ErrUnionSelectorUnknown, got %v", err)
	}
}

func TestUnionValidate(t *testing.T) {
	uc := testUnion(t)
	if err := uc.Validate(UnionValue{Selector: 1, Value: "nope"}); !errors.Is(err, ErrUnionValueMismatch) {
		t.Fatalf("mismatch err = %v", err)
	}
	if err := uc.Validate(UnionValue{Selector: 0, Value: uint64(1)}); !errors.Is(err, ErrUnionValueMismatch) {
		t.Fatalf("none with value err = %v", err)
	}
	if err := uc.Validate(UnionValue{Selector: 5}); !errors.Is(err, ErrUnionSelectorUnknown) {
		t.Fatalf("unknown selector err = %v", err)
	}
	if err := uc.Validate(UnionValue{Selector: 2, Value: make([]byte, 9)}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("over capacity err = %v", err)
	}
}

func TestUnionInList(t *testing.T) {
	uc := testUnion(t)
	c := List[UnionValue](uc, 4)
	v := []UnionValue{
		{Selector: 2, Value: []byte{1}},
		{},
		{Selector: 1, Value: uint64(5)},
	}
	enc, err := Marshal[[]UnionValue](c, v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := c.FromBytes(enc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, v)
}
