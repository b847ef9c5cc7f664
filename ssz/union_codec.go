// union_codec.go implements SSZ union type encoding and decoding with a
// selector byte and a registry of variants.
//
// A union is encoded as:
//
//	[selector_byte (1)] [value_bytes (variable)]
//
// The selector identifies which variant type is active, and the value
// bytes contain the SSZ encoding of that variant. Selector 0 may be the None
// variant, which has an empty body.
package ssz

import (
	"errors"
	"fmt"
	"slices"
)

// Union codec errors.
var (
	ErrUnionSelectorUnknown   = errors.New("ssz: unknown union selector")
	ErrUnionSelectorDuplicate = errors.New("ssz: duplicate union selector")
	ErrUnionRegistryEmpty     = errors.New("ssz: union registry has no types")
	ErrUnionDataTooShort      = errors.New("ssz: union data too short for selector")
	ErrUnionNilCodec          = errors.New("ssz: nil union codec provided")
	ErrUnionValueMismatch     = errors.New("ssz: union value does not match selector")
	ErrUnionSelectorReserved  = errors.New("ssz: union selector reserved")
)

// MaxUnionSelector is the largest selector a union variant may use. Selectors
// 128-255 are reserved for future use.
const MaxUnionSelector = 127

// NoneSelector is the selector byte of the "None" variant in optional unions.
const NoneSelector byte = 0

// variantCodec is a Codec with the value type erased.
type variantCodec interface {
	Sizer
	bytesLen(v any) int
	write(dst []byte, v any) []byte
	fromBytes(b []byte) (any, error)
	check(v any) error
}

type typedVariant[T any] struct {
	codec Codec[T]
}

func (t typedVariant[T]) IsStatic() bool { return t.codec.IsStatic() }

func (t typedVariant[T]) FixedLen() int { return t.codec.FixedLen() }

func (t typedVariant[T]) MaxLen() int { return t.codec.MaxLen() }

func (t typedVariant[T]) bytesLen(v any) int { return t.codec.BytesLen(v.(T)) }

func (t typedVariant[T]) write(dst []byte, v any) []byte { return t.codec.Write(dst, v.(T)) }

func (t typedVariant[T]) fromBytes(b []byte) (any, error) { return t.codec.FromBytes(b) }

func (t typedVariant[T]) check(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: have %T", ErrUnionValueMismatch, v)
	}
	if vc, ok := t.codec.(Validator[T]); ok {
		return vc.Validate(tv)
	}
	return nil
}

// UnionVariant is one selectable type of a union.
type UnionVariant struct {
	// Selector is the unique byte identifying this variant.
	Selector byte
	// Name is a human-readable name for the variant.
	Name  string
	codec variantCodec // nil for None
}

// Variant returns a union variant that encodes values of type T with c.
func Variant[T any](selector byte, name string, c Codec[T]) UnionVariant {
	return UnionVariant{Selector: selector, Name: name, codec: typedVariant[T]{c}}
}

// NoneVariant returns the empty variant at selector 0.
func NoneVariant() UnionVariant {
	return UnionVariant{Selector: NoneSelector, Name: "none"}
}

// UnionTypeRegistry holds the set of variant types for a union.
type UnionTypeRegistry struct {
	variants map[byte]UnionVariant
	names    map[string]byte // name -> selector mapping
}

// NewUnionTypeRegistry creates an empty union type registry.
func NewUnionTypeRegistry() *UnionTypeRegistry {
	return &UnionTypeRegistry{
		variants: make(map[byte]UnionVariant),
		names:    make(map[string]byte),
	}
}

// Register adds a variant to the registry.
func (r *UnionTypeRegistry) Register(v UnionVariant) error {
	if v.Selector > MaxUnionSelector {
		return fmt.Errorf("%w: %d", ErrUnionSelectorReserved, v.Selector)
	}
	if v.codec == nil && v.Selector != NoneSelector {
		return fmt.Errorf("%w: selector %d", ErrUnionNilCodec, v.Selector)
	}
	if _, exists := r.variants[v.Selector]; exists {
		return fmt.Errorf("%w: selector %d", ErrUnionSelectorDuplicate, v.Selector)
	}
	r.variants[v.Selector] = v
	if v.Name != "" {
		r.names[v.Name] = v.Selector
	}
	return nil
}

// Lookup returns the variant for the given selector.
func (r *UnionTypeRegistry) Lookup(selector byte) (UnionVariant, error) {
	v, ok := r.variants[selector]
	if !ok {
		return UnionVariant{}, fmt.Errorf("%w: %d", ErrUnionSelectorUnknown, selector)
	}
	return v, nil
}

// LookupByName returns the variant for the given name.
func (r *UnionTypeRegistry) LookupByName(name string) (UnionVariant, error) {
	sel, ok := r.names[name]
	if !ok {
		return UnionVariant{}, fmt.Errorf("%w: name %q", ErrUnionSelectorUnknown, name)
	}
	return r.variants[sel], nil
}

// Count returns the number of registered variants.
func (r *UnionTypeRegistry) Count() int {
	return len(r.variants)
}

// Selectors returns all registered selector bytes in ascending order.
func (r *UnionTypeRegistry) Selectors() []byte {
	sels := make([]byte, 0, len(r.variants))
	for s := range r.variants {
		sels = append(sels, s)
	}
	slices.Sort(sels)
	return sels
}

// UnionValue is a union instance: the active selector and its value. The
// None variant carries a nil Value.
type UnionValue struct {
	Selector byte
	Value    any
}

// IsNone reports whether the value is the None variant.
func (uv UnionValue) IsNone() bool {
	return uv.Selector == NoneSelector && uv.Value == nil
}

// UnionCodec encodes and decodes union values using a type registry. It is a
// variable-size Codec and nests in containers and lists like any other.
type UnionCodec struct {
	registry *UnionTypeRegistry
	maxLen   int
}

// NewUnionCodec creates a union codec from its variants.
func NewUnionCodec(variants ...UnionVariant) (*UnionCodec, error) {
	if len(variants) == 0 {
		return nil, ErrUnionRegistryEmpty
	}
	r := NewUnionTypeRegistry()
	body := 0
	for _, v := range variants {
		if err := r.Register(v); err != nil {
			return nil, err
		}
		if v.codec != nil {
			body = max(body, v.codec.MaxLen())
		}
	}
	return &UnionCodec{registry: r, maxLen: checkedAdd(1, body)}, nil
}

// Registry returns the codec's variant registry.
func (uc *UnionCodec) Registry() *UnionTypeRegistry { return uc.registry }

func (uc *UnionCodec) IsStatic() bool { return false }

func (uc *UnionCodec) FixedLen() int { return BytesPerLengthOffset }

func (uc *UnionCodec) MaxLen() int { return uc.maxLen }

// BytesLen returns 1 + the size of the value. The selector must be
// registered.
func (uc *UnionCodec) BytesLen(uv UnionValue) int {
	v := uc.registry.variants[uv.Selector]
	if v.codec == nil {
		return 1
	}
	return checkedAdd(1, v.codec.bytesLen(uv.Value))
}

func (uc *UnionCodec) WriteFixed(dst []byte, uv UnionValue, offset *int) []byte {
	return writeFixed[UnionValue](uc, dst, uv, offset)
}

func (uc *UnionCodec) WriteVariable(dst []byte, uv UnionValue) []byte { return uc.Write(dst, uv) }

func (uc *UnionCodec) Write(dst []byte, uv UnionValue) []byte {
	dst = append(dst, uv.Selector)
	if v := uc.registry.variants[uv.Selector]; v.codec != nil {
		dst = v.codec.write(dst, uv.Value)
	}
	return dst
}

func (uc *UnionCodec) Read(_, variable *Reader) (UnionValue, error) {
	b := variable.Rest()
	if len(b) < 1 {
		return UnionValue{}, fmt.Errorf("%w: %w", ErrInvalidByteLength, ErrUnionDataTooShort)
	}
	v, err := uc.registry.Lookup(b[0])
	if err != nil {
		return UnionValue{}, fmt.Errorf("%w: %w", ErrBytesInvalid, err)
	}
	if v.codec == nil {
		if len(b) != 1 {
			return UnionValue{}, fmt.Errorf("%w: none variant with %d body bytes", ErrBytesInvalid, len(b)-1)
		}
		return UnionValue{Selector: NoneSelector}, nil
	}
	value, err := v.codec.fromBytes(b[1:])
	if err != nil {
		return UnionValue{}, fmt.Errorf("union variant %s: %w", v.Name, err)
	}
	return UnionValue{Selector: v.Selector, Value: value}, nil
}

func (uc *UnionCodec) FromBytes(b []byte) (UnionValue, error) {
	return fromBytesVariable[UnionValue](uc, b)
}

// Validate checks that the selector is registered and the value has the
// variant's type and respects its bounds.
func (uc *UnionCodec) Validate(uv UnionValue) error {
	v, err := uc.registry.Lookup(uv.Selector)
	if err != nil {
		return err
	}
	if v.codec == nil {
		if uv.Value != nil {
			return fmt.Errorf("%w: none variant with %T value", ErrUnionValueMismatch, uv.Value)
		}
		return nil
	}
	return v.codec.check(uv.Value)
}
