package types

import (
	"fmt"

	"github.com/eth2030/sszb/ssz"
)

// SyncAggregate carries the sync committee participation bits and their
// aggregate signature.
type SyncAggregate struct {
	SyncCommitteeBits      ssz.Bitvector `json:"sync_committee_bits"`
	SyncCommitteeSignature BLSSignature  `json:"sync_committee_signature"`
}

// AggregateSync merges two sync committee contributions with disjoint
// participation. sig is the caller's BLS aggregate of both signatures.
func AggregateSync(a, b SyncAggregate, sig BLSSignature) (SyncAggregate, error) {
	if a.SyncCommitteeBits.Overlaps(b.SyncCommitteeBits) {
		return SyncAggregate{}, ErrAggregationOverlap
	}
	bits, err := a.SyncCommitteeBits.Or(b.SyncCommitteeBits)
	if err != nil {
		return SyncAggregate{}, fmt.Errorf("aggregate sync: %w", err)
	}
	return SyncAggregate{SyncCommitteeBits: bits, SyncCommitteeSignature: sig}, nil
}

// Covers reports whether s includes every participant of other.
func (s *SyncAggregate) Covers(other *SyncAggregate) bool {
	both, err := s.SyncCommitteeBits.And(other.SyncCommitteeBits)
	return err == nil && both.Equal(other.SyncCommitteeBits)
}

// BeaconBlockBody is the Deneb block body.
type BeaconBlockBody struct {
	RandaoReveal          BLSSignature                 `json:"randao_reveal"`
	Eth1Data              Eth1Data                     `json:"eth1_data"`
	Graffiti              Root                         `json:"graffiti"`
	ProposerSlashings     []ProposerSlashing           `json:"proposer_slashings"`
	AttesterSlashings     []AttesterSlashing           `json:"attester_slashings"`
	Attestations          []Attestation                `json:"attestations"`
	Deposits              []Deposit                    `json:"deposits"`
	VoluntaryExits        []SignedVoluntaryExit        `json:"voluntary_exits"`
	SyncAggregate         SyncAggregate                `json:"sync_aggregate"`
	ExecutionPayload      ExecutionPayload             `json:"execution_payload"`
	BLSToExecutionChanges []SignedBLSToExecutionChange `json:"bls_to_execution_changes"`
	BlobKZGCommitments    []KZGCommitment              `json:"blob_kzg_commitments"`
}

// BeaconBlock is a block proposal.
type BeaconBlock struct {
	Slot          Slot            `json:"slot"`
	ProposerIndex ValidatorIndex  `json:"proposer_index"`
	ParentRoot    Root            `json:"parent_root"`
	StateRoot     Root            `json:"state_root"`
	Body          BeaconBlockBody `json:"body"`
}

// SignedBeaconBlock is a BeaconBlock with the proposer's signature.
type SignedBeaconBlock struct {
	Message   BeaconBlock  `json:"message"`
	Signature BLSSignature `json:"signature"`
}

// Header returns the block header with the given body root. Computing the
// body root is left to the caller.
func (b *BeaconBlock) Header(bodyRoot Root) BeaconBlockHeader {
	return BeaconBlockHeader{
		Slot:          b.Slot,
		ProposerIndex: b.ProposerIndex,
		ParentRoot:    b.ParentRoot,
		StateRoot:     b.StateRoot,
		BodyRoot:      bodyRoot,
	}
}

func syncAggregateCodec(p Preset) *ssz.Container[SyncAggregate] {
	return ssz.NewContainer[SyncAggregate](
		ssz.Field("sync_committee_bits", ssz.BitvectorCodec(p.SyncCommitteeSize),
			func(s *SyncAggregate) *ssz.Bitvector { return &s.SyncCommitteeBits }),
		ssz.Field("sync_committee_signature", sigCodec,
			func(s *SyncAggregate) *BLSSignature { return &s.SyncCommitteeSignature }),
	)
}

// bodyCodecs bundles the element codecs the block body is assembled from.
type bodyCodecs struct {
	eth1Data         *ssz.Container[Eth1Data]
	proposerSlashing *ssz.Container[ProposerSlashing]
	attesterSlashing *ssz.Container[AttesterSlashing]
	attestation      *ssz.Container[Attestation]
	deposit          *ssz.Container[Deposit]
	voluntaryExit    *ssz.Container[SignedVoluntaryExit]
	syncAggregate    *ssz.Container[SyncAggregate]
	payload          *ssz.Container[ExecutionPayload]
	blsChange        *ssz.Container[SignedBLSToExecutionChange]
}

func beaconBlockBodyCodec(p Preset, bc bodyCodecs) *ssz.Container[BeaconBlockBody] {
	type bb = BeaconBlockBody
	return ssz.NewContainer[bb](
		ssz.Field("randao_reveal", sigCodec, func(b *bb) *BLSSignature { return &b.RandaoReveal }),
		ssz.Field[bb, Eth1Data]("eth1_data", bc.eth1Data, func(b *bb) *Eth1Data { return &b.Eth1Data }),
		ssz.Field("graffiti", rootCodec, func(b *bb) *Root { return &b.Graffiti }),
		ssz.Field("proposer_slashings", ssz.List[ProposerSlashing](bc.proposerSlashing, p.MaxProposerSlashings),
			func(b *bb) *[]ProposerSlashing { return &b.ProposerSlashings }),
		ssz.Field("attester_slashings", ssz.List[AttesterSlashing](bc.attesterSlashing, p.MaxAttesterSlashings),
			func(b *bb) *[]AttesterSlashing { return &b.AttesterSlashings }),
		ssz.Field("attestations", ssz.List[Attestation](bc.attestation, p.MaxAttestations),
			func(b *bb) *[]Attestation { return &b.Attestations }),
		ssz.Field("deposits", ssz.List[Deposit](bc.deposit, p.MaxDeposits),
			func(b *bb) *[]Deposit { return &b.Deposits }),
		ssz.Field("voluntary_exits", ssz.List[SignedVoluntaryExit](bc.voluntaryExit, p.MaxVoluntaryExits),
			func(b *bb) *[]SignedVoluntaryExit { return &b.VoluntaryExits }),
		ssz.Field[bb, SyncAggregate]("sync_aggregate", bc.syncAggregate,
			func(b *bb) *SyncAggregate { return &b.SyncAggregate }),
		ssz.Field[bb, ExecutionPayload]("execution_payload", bc.payload,
			func(b *bb) *ExecutionPayload { return &b.ExecutionPayload }),
		ssz.Field("bls_to_execution_changes",
			ssz.List[SignedBLSToExecutionChange](bc.blsChange, p.MaxBLSToExecutionChanges),
			func(b *bb) *[]SignedBLSToExecutionChange { return &b.BLSToExecutionChanges }),
		ssz.Field("blob_kzg_commitments", ssz.List(commitCodec, p.MaxBlobCommitmentsPerBlock),
			func(b *bb) *[]KZGCommitment { return &b.BlobKZGCommitments }),
	)
}

func beaconBlockCodec(body *ssz.Container[BeaconBlockBody]) *ssz.Container[BeaconBlock] {
	return ssz.NewContainer[BeaconBlock](
		ssz.Field("slot", slotCodec, func(b *BeaconBlock) *Slot { return &b.Slot }),
		ssz.Field("proposer_index", indexCodec, func(b *BeaconBlock) *ValidatorIndex { return &b.ProposerIndex }),
		ssz.Field("parent_root", rootCodec, func(b *BeaconBlock) *Root { return &b.ParentRoot }),
		ssz.Field("state_root", rootCodec, func(b *BeaconBlock) *Root { return &b.StateRoot }),
		ssz.Field[BeaconBlock, BeaconBlockBody]("body", body, func(b *BeaconBlock) *BeaconBlockBody { return &b.Body }),
	)
}

func signedBeaconBlockCodec(block *ssz.Container[BeaconBlock]) *ssz.Container[SignedBeaconBlock] {
	return ssz.NewContainer[SignedBeaconBlock](
		ssz.Field[SignedBeaconBlock, BeaconBlock]("message", block,
			func(s *SignedBeaconBlock) *BeaconBlock { return &s.Message }),
		ssz.Field("signature", sigCodec, func(s *SignedBeaconBlock) *BLSSignature { return &s.Signature }),
	)
}
