package types

import (
	goethkzg "github.com/crate-crypto/go-eth-kzg"

	"github.com/eth2030/sszb/ssz"
)

// BlobSidecar gossips a blob together with the signed header of the block
// that commits to it.
type BlobSidecar struct {
	Index                       uint64                  `json:"index"`
	Blob                        Blob                    `json:"blob"`
	KZGCommitment               KZGCommitment           `json:"kzg_commitment"`
	KZGProof                    KZGProof                `json:"kzg_proof"`
	SignedBlockHeader           SignedBeaconBlockHeader `json:"signed_block_header"`
	KZGCommitmentInclusionProof []Root                  `json:"kzg_commitment_inclusion_proof"`
}

// KZG returns the blob material as go-eth-kzg values, ready for
// VerifyBlobKZGProof.
func (s *BlobSidecar) KZG() (*goethkzg.Blob, goethkzg.KZGCommitment, goethkzg.KZGProof) {
	return (*goethkzg.Blob)(&s.Blob), goethkzg.KZGCommitment(s.KZGCommitment), goethkzg.KZGProof(s.KZGProof)
}

// BlobIdentifier requests a sidecar by block root and blob index.
type BlobIdentifier struct {
	BlockRoot Root   `json:"block_root"`
	Index     uint64 `json:"index"`
}

func blobSidecarCodec(p Preset, sh *ssz.Container[SignedBeaconBlockHeader]) *ssz.Container[BlobSidecar] {
	type bs = BlobSidecar
	return ssz.NewContainer[bs](
		ssz.Field("index", u64Codec, func(s *bs) *uint64 { return &s.Index }),
		ssz.Field("blob", blobCodec, func(s *bs) *Blob { return &s.Blob }),
		ssz.Field("kzg_commitment", commitCodec, func(s *bs) *KZGCommitment { return &s.KZGCommitment }),
		ssz.Field("kzg_proof", proofCodec, func(s *bs) *KZGProof { return &s.KZGProof }),
		ssz.Field[bs, SignedBeaconBlockHeader]("signed_block_header", sh,
			func(s *bs) *SignedBeaconBlockHeader { return &s.SignedBlockHeader }),
		ssz.Field("kzg_commitment_inclusion_proof", ssz.Vector(rootCodec, p.KZGCommitmentInclusionProofDepth()),
			func(s *bs) *[]Root { return &s.KZGCommitmentInclusionProof }),
	)
}

func blobIdentifierCodec() *ssz.Container[BlobIdentifier] {
	return ssz.NewContainer[BlobIdentifier](
		ssz.Field("block_root", rootCodec, func(b *BlobIdentifier) *Root { return &b.BlockRoot }),
		ssz.Field("index", u64Codec, func(b *BlobIdentifier) *uint64 { return &b.Index }),
	)
}
