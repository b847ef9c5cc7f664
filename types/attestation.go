package types

import (
	"errors"
	"fmt"

	"github.com/eth2030/sszb/ssz"
)

// Aggregation errors.
var (
	ErrAttestationDataMismatch = errors.New("types: attestations vote for different data")
	ErrAggregationOverlap      = errors.New("types: aggregation bits overlap")
)

// Attestation is an aggregate vote. AggregationBits marks the committee
// members that signed.
type Attestation struct {
	AggregationBits ssz.Bitlist     `json:"aggregation_bits"`
	Data            AttestationData `json:"data"`
	Signature       BLSSignature    `json:"signature"`
}

// IndexedAttestation lists the attesting validators explicitly. It is the
// form used inside attester slashings.
type IndexedAttestation struct {
	AttestingIndices []ValidatorIndex `json:"attesting_indices"`
	Data             AttestationData  `json:"data"`
	Signature        BLSSignature     `json:"signature"`
}

// AttesterSlashing proves two conflicting attestations.
type AttesterSlashing struct {
	Attestation1 IndexedAttestation `json:"attestation_1"`
	Attestation2 IndexedAttestation `json:"attestation_2"`
}

// AggregateAttestations merges two attestations for the same data whose
// aggregation bits are disjoint. Signatures are not combined here: sig is
// the caller's BLS aggregate of both signatures.
func AggregateAttestations(a, b Attestation, sig BLSSignature) (Attestation, error) {
	if a.Data != b.Data {
		return Attestation{}, ErrAttestationDataMismatch
	}
	if a.AggregationBits.Overlaps(b.AggregationBits) {
		return Attestation{}, ErrAggregationOverlap
	}
	bits, err := a.AggregationBits.Or(b.AggregationBits)
	if err != nil {
		return Attestation{}, fmt.Errorf("aggregate attestations: %w", err)
	}
	return Attestation{AggregationBits: bits, Data: a.Data, Signature: sig}, nil
}

// Covers reports whether a votes for the same data as other and includes
// every one of its participants.
func (a *Attestation) Covers(other *Attestation) bool {
	if a.Data != other.Data {
		return false
	}
	both, err := a.AggregationBits.And(other.AggregationBits)
	return err == nil && both.Equal(other.AggregationBits)
}

func attestationCodec(p Preset, ad *ssz.Container[AttestationData]) *ssz.Container[Attestation] {
	return ssz.NewContainer[Attestation](
		ssz.Field("aggregation_bits", ssz.BitlistCodec(p.MaxValidatorsPerCommittee),
			func(a *Attestation) *ssz.Bitlist { return &a.AggregationBits }),
		ssz.Field[Attestation, AttestationData]("data", ad, func(a *Attestation) *AttestationData { return &a.Data }),
		ssz.Field("signature", sigCodec, func(a *Attestation) *BLSSignature { return &a.Signature }),
	)
}

func indexedAttestationCodec(p Preset, ad *ssz.Container[AttestationData]) *ssz.Container[IndexedAttestation] {
	return ssz.NewContainer[IndexedAttestation](
		ssz.Field("attesting_indices", ssz.List(indexCodec, p.MaxValidatorsPerCommittee),
			func(a *IndexedAttestation) *[]ValidatorIndex { return &a.AttestingIndices }),
		ssz.Field[IndexedAttestation, AttestationData]("data", ad,
			func(a *IndexedAttestation) *AttestationData { return &a.Data }),
		ssz.Field("signature", sigCodec, func(a *IndexedAttestation) *BLSSignature { return &a.Signature }),
	)
}

func attesterSlashingCodec(ia *ssz.Container[IndexedAttestation]) *ssz.Container[AttesterSlashing] {
	return ssz.NewContainer[AttesterSlashing](
		ssz.Field[AttesterSlashing, IndexedAttestation]("attestation_1", ia,
			func(s *AttesterSlashing) *IndexedAttestation { return &s.Attestation1 }),
		ssz.Field[AttesterSlashing, IndexedAttestation]("attestation_2", ia,
			func(s *AttesterSlashing) *IndexedAttestation { return &s.Attestation2 }),
	)
}
