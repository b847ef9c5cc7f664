package types

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"github.com/benbjohnson/immutable"

	"github.com/eth2030/sszb/ssz"
)

// ValidatorRegistry is the beacon state validator list backed by a
// persistent list. Updates return a new registry and share structure with
// the old one, so snapshots are cheap.
type ValidatorRegistry struct {
	limit int
	list  *immutable.List[Validator]
}

// NewValidatorRegistry returns an empty registry bounded by the preset's
// ValidatorRegistryLimit.
func NewValidatorRegistry(p Preset) *ValidatorRegistry {
	return &ValidatorRegistry{limit: p.ValidatorRegistryLimit, list: immutable.NewList[Validator]()}
}

// ValidatorRegistryFrom collects seq into a registry, failing with
// ssz.ErrCapacityExceeded once the preset limit is passed.
func ValidatorRegistryFrom(p Preset, seq iter.Seq[Validator]) (*ValidatorRegistry, error) {
	l, err := ssz.CollectBounded(seq, p.ValidatorRegistryLimit)
	if err != nil {
		return nil, err
	}
	return &ValidatorRegistry{limit: p.ValidatorRegistryLimit, list: l}, nil
}

// Len returns the number of validators.
func (r *ValidatorRegistry) Len() int {
	if r == nil || r.list == nil {
		return 0
	}
	return r.list.Len()
}

// Get returns the validator at index i.
func (r *ValidatorRegistry) Get(i ValidatorIndex) (Validator, bool) {
	if uint64(i) >= uint64(r.Len()) {
		return Validator{}, false
	}
	return r.list.Get(int(i)), true
}

// Append returns a registry with v added at the end.
func (r *ValidatorRegistry) Append(v Validator) (*ValidatorRegistry, error) {
	if r.Len() >= r.limit {
		return nil, fmt.Errorf("%w: validator registry full at %d", ssz.ErrCapacityExceeded, r.limit)
	}
	l := r.list
	if l == nil {
		l = immutable.NewList[Validator]()
	}
	return &ValidatorRegistry{limit: r.limit, list: l.Append(v)}, nil
}

// Set returns a registry with the validator at index i replaced.
func (r *ValidatorRegistry) Set(i ValidatorIndex, v Validator) (*ValidatorRegistry, error) {
	if uint64(i) >= uint64(r.Len()) {
		return nil, fmt.Errorf("validator index %d out of range (len %d)", i, r.Len())
	}
	return &ValidatorRegistry{limit: r.limit, list: r.list.Set(int(i), v)}, nil
}

// All iterates over the validators with their indices.
func (r *ValidatorRegistry) All() iter.Seq2[int, Validator] {
	if r == nil {
		return ssz.All[Validator](nil)
	}
	return ssz.All(r.list)
}

// MarshalJSON encodes the registry as a JSON array.
func (r *ValidatorRegistry) MarshalJSON() ([]byte, error) {
	out := make([]Validator, 0, r.Len())
	for _, v := range r.All() {
		out = append(out, v)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON array of validators. The limit is kept when
// already set and defaults to the mainnet limit otherwise.
func (r *ValidatorRegistry) UnmarshalJSON(b []byte) error {
	var vals []Validator
	if err := json.Unmarshal(b, &vals); err != nil {
		return err
	}
	if r.limit == 0 {
		r.limit = Mainnet.ValidatorRegistryLimit
	}
	l, err := ssz.CollectBounded(slices.Values(vals), r.limit)
	if err != nil {
		return err
	}
	r.list = l
	return nil
}

// validatorRegistryCodec adapts the persistent list codec to
// *ValidatorRegistry.
type validatorRegistryCodec struct {
	ssz.Codec[*immutable.List[Validator]]
	limit int
}

// ValidatorRegistryCodec returns the codec for List[Validator,
// ValidatorRegistryLimit] decoding into a ValidatorRegistry.
func ValidatorRegistryCodec(p Preset) ssz.Codec[*ValidatorRegistry] {
	return validatorRegistryCodec{
		Codec: ssz.PersistentList(ssz.Codec[Validator](validatorCodec()), p.ValidatorRegistryLimit),
		limit: p.ValidatorRegistryLimit,
	}
}

func (c validatorRegistryCodec) list(r *ValidatorRegistry) *immutable.List[Validator] {
	if r == nil {
		return nil
	}
	return r.list
}

func (c validatorRegistryCodec) BytesLen(r *ValidatorRegistry) int {
	return c.Codec.BytesLen(c.list(r))
}

func (c validatorRegistryCodec) WriteFixed(dst []byte, r *ValidatorRegistry, offset *int) []byte {
	return c.Codec.WriteFixed(dst, c.list(r), offset)
}

func (c validatorRegistryCodec) WriteVariable(dst []byte, r *ValidatorRegistry) []byte {
	return c.Codec.WriteVariable(dst, c.list(r))
}

func (c validatorRegistryCodec) Write(dst []byte, r *ValidatorRegistry) []byte {
	return c.Codec.Write(dst, c.list(r))
}

func (c validatorRegistryCodec) Read(fixed, variable *ssz.Reader) (*ValidatorRegistry, error) {
	l, err := c.Codec.Read(fixed, variable)
	if err != nil {
		return nil, err
	}
	return &ValidatorRegistry{limit: c.limit, list: l}, nil
}

func (c validatorRegistryCodec) FromBytes(b []byte) (*ValidatorRegistry, error) {
	l, err := c.Codec.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return &ValidatorRegistry{limit: c.limit, list: l}, nil
}

func (c validatorRegistryCodec) Validate(r *ValidatorRegistry) error {
	if r.Len() > c.limit {
		return fmt.Errorf("%w: %d validators, limit %d", ssz.ErrCapacityExceeded, r.Len(), c.limit)
	}
	return nil
}
