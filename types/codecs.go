package types

import (
	"sync"

	"github.com/eth2030/sszb/ssz"
)

// Codecs holds the container codecs for one preset. Codecs are immutable
// and safe for concurrent use.
type Codecs struct {
	Preset Preset

	Fork                    *ssz.Container[Fork]
	Checkpoint              *ssz.Container[Checkpoint]
	AttestationData         *ssz.Container[AttestationData]
	BeaconBlockHeader       *ssz.Container[BeaconBlockHeader]
	SignedBeaconBlockHeader *ssz.Container[SignedBeaconBlockHeader]
	Eth1Data                *ssz.Container[Eth1Data]
	DepositData             *ssz.Container[DepositData]
	Deposit                 *ssz.Container[Deposit]
	ProposerSlashing        *ssz.Container[ProposerSlashing]
	VoluntaryExit           *ssz.Container[VoluntaryExit]
	SignedVoluntaryExit     *ssz.Container[SignedVoluntaryExit]
	Validator               *ssz.Container[Validator]

	Attestation        *ssz.Container[Attestation]
	IndexedAttestation *ssz.Container[IndexedAttestation]
	AttesterSlashing   *ssz.Container[AttesterSlashing]

	Withdrawal                 ssz.Codec[Withdrawal]
	BLSToExecutionChange       *ssz.Container[BLSToExecutionChange]
	SignedBLSToExecutionChange *ssz.Container[SignedBLSToExecutionChange]
	ExecutionPayload           *ssz.Container[ExecutionPayload]
	ExecutionPayloadHeader     *ssz.Container[ExecutionPayloadHeader]

	SyncAggregate     *ssz.Container[SyncAggregate]
	BeaconBlockBody   *ssz.Container[BeaconBlockBody]
	BeaconBlock       *ssz.Container[BeaconBlock]
	SignedBeaconBlock *ssz.Container[SignedBeaconBlock]

	BlobSidecar    *ssz.Container[BlobSidecar]
	BlobIdentifier *ssz.Container[BlobIdentifier]
}

// NewCodecs builds the codec set for p. Shared sub-containers are built once
// and reused by every container that embeds them.
func NewCodecs(p Preset) *Codecs {
	c := &Codecs{Preset: p}

	c.Fork = forkCodec()
	c.Checkpoint = checkpointCodec()
	c.AttestationData = attestationDataCodec(c.Checkpoint)
	c.BeaconBlockHeader = beaconBlockHeaderCodec()
	c.SignedBeaconBlockHeader = signedBeaconBlockHeaderCodec(c.BeaconBlockHeader)
	c.Eth1Data = eth1DataCodec()
	c.DepositData = depositDataCodec()
	c.Deposit = depositCodec(c.DepositData)
	c.ProposerSlashing = proposerSlashingCodec(c.SignedBeaconBlockHeader)
	c.VoluntaryExit = voluntaryExitCodec()
	c.SignedVoluntaryExit = signedVoluntaryExitCodec(c.VoluntaryExit)
	c.Validator = validatorCodec()

	c.Attestation = attestationCodec(p, c.AttestationData)
	c.IndexedAttestation = indexedAttestationCodec(p, c.AttestationData)
	c.AttesterSlashing = attesterSlashingCodec(c.IndexedAttestation)

	c.Withdrawal = withdrawalCodec{}
	c.BLSToExecutionChange = blsChangeCodec()
	c.SignedBLSToExecutionChange = signedBLSChangeCodec(c.BLSToExecutionChange)
	c.ExecutionPayload = executionPayloadCodec(p)
	c.ExecutionPayloadHeader = executionPayloadHeaderCodec(p)

	c.SyncAggregate = syncAggregateCodec(p)
	c.BeaconBlockBody = beaconBlockBodyCodec(p, bodyCodecs{
		eth1Data:         c.Eth1Data,
		proposerSlashing: c.ProposerSlashing,
		attesterSlashing: c.AttesterSlashing,
		attestation:      c.Attestation,
		deposit:          c.Deposit,
		voluntaryExit:    c.SignedVoluntaryExit,
		syncAggregate:    c.SyncAggregate,
		payload:          c.ExecutionPayload,
		blsChange:        c.SignedBLSToExecutionChange,
	})
	c.BeaconBlock = beaconBlockCodec(c.BeaconBlockBody)
	c.SignedBeaconBlock = signedBeaconBlockCodec(c.BeaconBlock)

	c.BlobSidecar = blobSidecarCodec(p, c.SignedBeaconBlockHeader)
	c.BlobIdentifier = blobIdentifierCodec()
	return c
}

var (
	mainnetCodecs = sync.OnceValue(func() *Codecs { return NewCodecs(Mainnet) })
	minimalCodecs = sync.OnceValue(func() *Codecs { return NewCodecs(Minimal) })
)

// MainnetCodecs returns the shared mainnet codec set.
func MainnetCodecs() *Codecs { return mainnetCodecs() }

// CodecsFor returns the shared codec set for a named preset.
func CodecsFor(name string) (*Codecs, error) {
	p, err := PresetByName(name)
	if err != nil {
		return nil, err
	}
	if p.Name == Minimal.Name {
		return minimalCodecs(), nil
	}
	return mainnetCodecs(), nil
}

// The SSZ methods below use the mainnet preset.

// MarshalSSZ returns the SSZ encoding of the checkpoint.
func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[Checkpoint](MainnetCodecs().Checkpoint, *c)
}

// SizeSSZ returns the encoded size of the checkpoint.
func (c *Checkpoint) SizeSSZ() int { return MainnetCodecs().Checkpoint.BytesLen(*c) }

// UnmarshalSSZ decodes b into the checkpoint.
func (c *Checkpoint) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[Checkpoint](MainnetCodecs().Checkpoint, b, c)
}

func (d *AttestationData) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[AttestationData](MainnetCodecs().AttestationData, *d)
}

func (d *AttestationData) SizeSSZ() int { return MainnetCodecs().AttestationData.BytesLen(*d) }

func (d *AttestationData) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[AttestationData](MainnetCodecs().AttestationData, b, d)
}

func (h *BeaconBlockHeader) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[BeaconBlockHeader](MainnetCodecs().BeaconBlockHeader, *h)
}

func (h *BeaconBlockHeader) SizeSSZ() int { return MainnetCodecs().BeaconBlockHeader.BytesLen(*h) }

func (h *BeaconBlockHeader) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[BeaconBlockHeader](MainnetCodecs().BeaconBlockHeader, b, h)
}

func (a *Attestation) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[Attestation](MainnetCodecs().Attestation, *a)
}

func (a *Attestation) SizeSSZ() int { return MainnetCodecs().Attestation.BytesLen(*a) }

func (a *Attestation) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[Attestation](MainnetCodecs().Attestation, b, a)
}

func (e *ExecutionPayload) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[ExecutionPayload](MainnetCodecs().ExecutionPayload, *e)
}

func (e *ExecutionPayload) SizeSSZ() int { return MainnetCodecs().ExecutionPayload.BytesLen(*e) }

func (e *ExecutionPayload) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[ExecutionPayload](MainnetCodecs().ExecutionPayload, b, e)
}

func (s *SignedBeaconBlock) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[SignedBeaconBlock](MainnetCodecs().SignedBeaconBlock, *s)
}

func (s *SignedBeaconBlock) SizeSSZ() int { return MainnetCodecs().SignedBeaconBlock.BytesLen(*s) }

func (s *SignedBeaconBlock) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[SignedBeaconBlock](MainnetCodecs().SignedBeaconBlock, b, s)
}

func (s *BlobSidecar) MarshalSSZ() ([]byte, error) {
	return ssz.Marshal[BlobSidecar](MainnetCodecs().BlobSidecar, *s)
}

func (s *BlobSidecar) SizeSSZ() int { return MainnetCodecs().BlobSidecar.BytesLen(*s) }

func (s *BlobSidecar) UnmarshalSSZ(b []byte) error {
	return unmarshalInto[BlobSidecar](MainnetCodecs().BlobSidecar, b, s)
}

// unmarshalInto decodes b and assigns the result to dst only on success.
func unmarshalInto[T any](c ssz.Decoder[T], b []byte, dst *T) error {
	v, err := c.FromBytes(b)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

var (
	_ ssz.Marshaler   = (*Checkpoint)(nil)
	_ ssz.Unmarshaler = (*Checkpoint)(nil)
	_ ssz.Marshaler   = (*SignedBeaconBlock)(nil)
	_ ssz.Unmarshaler = (*SignedBeaconBlock)(nil)
	_ ssz.Marshaler   = (*BlobSidecar)(nil)
	_ ssz.Unmarshaler = (*BlobSidecar)(nil)
)
