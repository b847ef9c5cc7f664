package types

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/eth2030/sszb/log"
	"github.com/eth2030/sszb/ssz"
)

var (
	ErrUnknownType   = errors.New("types: unknown type")
	ErrDuplicateType = errors.New("types: type already registered")
	ErrTypeMismatch  = errors.New("types: value does not match registered type")
)

// TypeInfo describes a registered SSZ type and carries type-erased decode
// and encode functions for it.
type TypeInfo struct {
	Name     string
	IsStatic bool
	FixedLen int
	MaxLen   int

	decode func([]byte) (any, error)
	encode func(any) ([]byte, error)
	zero   func() any
}

// Decode decodes b as the registered type and returns a pointer to the
// result.
func (t *TypeInfo) Decode(b []byte) (any, error) { return t.decode(b) }

// Encode validates and encodes v, which must be the registered type or a
// pointer to it.
func (t *TypeInfo) Encode(v any) ([]byte, error) { return t.encode(v) }

// New returns a pointer to a zero value of the registered type, suitable as
// a JSON unmarshal target.
func (t *TypeInfo) New() any { return t.zero() }

// Registry maps type names to TypeInfo. Lookups are case-insensitive.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*TypeInfo
	log   *log.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*TypeInfo),
		log:   log.Default().Module("types"),
	}
}

// Register adds the codec c under name.
func Register[T any](r *Registry, name string, c ssz.Codec[T]) error {
	info := &TypeInfo{
		Name:     name,
		IsStatic: c.IsStatic(),
		FixedLen: c.FixedLen(),
		MaxLen:   c.MaxLen(),
		decode: func(b []byte) (any, error) {
			v, err := c.FromBytes(b)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		encode: func(v any) ([]byte, error) {
			switch x := v.(type) {
			case T:
				return ssz.Marshal[T](c, x)
			case *T:
				return ssz.Marshal[T](c, *x)
			}
			return nil, fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, name)
		},
		zero: func() any { return new(T) },
	}

	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.types[key] = info
	r.log.Debug("registered type", "name", name, "static", info.IsStatic, "fixed", info.FixedLen, "max", info.MaxLen)
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return info, nil
}

// Types returns all registered types sorted by name.
func (r *Registry) Types() []*TypeInfo {
	r.mu.RLock()
	out := make([]*TypeInfo, 0, len(r.types))
	for _, info := range r.types {
		out = append(out, info)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *TypeInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// DefaultRegistry returns a registry holding every container of c plus the
// validator registry list.
func DefaultRegistry(c *Codecs) *Registry {
	r := NewRegistry()
	for _, err := range []error{
		Register[Fork](r, "Fork", c.Fork),
		Register[Checkpoint](r, "Checkpoint", c.Checkpoint),
		Register[AttestationData](r, "AttestationData", c.AttestationData),
		Register[BeaconBlockHeader](r, "BeaconBlockHeader", c.BeaconBlockHeader),
		Register[SignedBeaconBlockHeader](r, "SignedBeaconBlockHeader", c.SignedBeaconBlockHeader),
		Register[Eth1Data](r, "Eth1Data", c.Eth1Data),
		Register[DepositData](r, "DepositData", c.DepositData),
		Register[Deposit](r, "Deposit", c.Deposit),
		Register[ProposerSlashing](r, "ProposerSlashing", c.ProposerSlashing),
		Register[VoluntaryExit](r, "VoluntaryExit", c.VoluntaryExit),
		Register[SignedVoluntaryExit](r, "SignedVoluntaryExit", c.SignedVoluntaryExit),
		Register[Validator](r, "Validator", c.Validator),
		Register[Attestation](r, "Attestation", c.Attestation),
		Register[IndexedAttestation](r, "IndexedAttestation", c.IndexedAttestation),
		Register[AttesterSlashing](r, "AttesterSlashing", c.AttesterSlashing),
		Register[Withdrawal](r, "Withdrawal", c.Withdrawal),
		Register[BLSToExecutionChange](r, "BLSToExecutionChange", c.BLSToExecutionChange),
		Register[SignedBLSToExecutionChange](r, "SignedBLSToExecutionChange", c.SignedBLSToExecutionChange),
		Register[ExecutionPayload](r, "ExecutionPayload", c.ExecutionPayload),
		Register[ExecutionPayloadHeader](r, "ExecutionPayloadHeader", c.ExecutionPayloadHeader),
		Register[SyncAggregate](r, "SyncAggregate", c.SyncAggregate),
		Register[BeaconBlockBody](r, "BeaconBlockBody", c.BeaconBlockBody),
		Register[BeaconBlock](r, "BeaconBlock", c.BeaconBlock),
		Register[SignedBeaconBlock](r, "SignedBeaconBlock", c.SignedBeaconBlock),
		Register[BlobSidecar](r, "BlobSidecar", c.BlobSidecar),
		Register[BlobIdentifier](r, "BlobIdentifier", c.BlobIdentifier),
		Register[*ValidatorRegistry](r, "Validators", ValidatorRegistryCodec(c.Preset)),
	} {
		if err != nil {
			// Names above are distinct.
			panic(err)
		}
	}
	r.log.Info("type registry ready", "preset", c.Preset.Name, "types", r.Len())
	return r
}
