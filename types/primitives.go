package types

import (
	"encoding/hex"

	goethkzg "github.com/crate-crypto/go-eth-kzg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/sszb/ssz"
)

// Consensus-layer scalar aliases.
type (
	Slot           uint64
	Epoch          uint64
	ValidatorIndex uint64
	CommitteeIndex uint64
	Gwei           uint64
)

// Root is a 32-byte SSZ hash tree root.
type Root = common.Hash

// Fixed-size byte types.
type (
	Version      [4]byte
	BLSPubkey    [48]byte
	BLSSignature [96]byte
	Bloom        [256]byte
)

// Blob types share their layout with the go-eth-kzg wire types and convert
// to them directly.
type (
	Blob          goethkzg.Blob
	KZGCommitment goethkzg.KZGCommitment
	KZGProof      goethkzg.KZGProof
)

func (v Version) String() string       { return hexutil.Encode(v[:]) }
func (k BLSPubkey) String() string     { return shortHex(k[:]) }
func (s BLSSignature) String() string  { return shortHex(s[:]) }
func (c KZGCommitment) String() string { return shortHex(c[:]) }

// MarshalText encodes the value as 0x-prefixed hex.
func (v Version) MarshalText() ([]byte, error) { return hexutil.Bytes(v[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (v *Version) UnmarshalText(b []byte) error { return hexutil.UnmarshalFixedText("Version", b, v[:]) }

// MarshalText encodes the key as 0x-prefixed hex.
func (k BLSPubkey) MarshalText() ([]byte, error) { return hexutil.Bytes(k[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (k *BLSPubkey) UnmarshalText(b []byte) error {
	return hexutil.UnmarshalFixedText("BLSPubkey", b, k[:])
}

// MarshalText encodes the signature as 0x-prefixed hex.
func (s BLSSignature) MarshalText() ([]byte, error) { return hexutil.Bytes(s[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (s *BLSSignature) UnmarshalText(b []byte) error {
	return hexutil.UnmarshalFixedText("BLSSignature", b, s[:])
}

// MarshalText encodes the bloom as 0x-prefixed hex.
func (b Bloom) MarshalText() ([]byte, error) { return hexutil.Bytes(b[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (b *Bloom) UnmarshalText(in []byte) error { return hexutil.UnmarshalFixedText("Bloom", in, b[:]) }

// MarshalText encodes the blob as 0x-prefixed hex.
func (b Blob) MarshalText() ([]byte, error) { return hexutil.Bytes(b[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (b *Blob) UnmarshalText(in []byte) error { return hexutil.UnmarshalFixedText("Blob", in, b[:]) }

// MarshalText encodes the commitment as 0x-prefixed hex.
func (c KZGCommitment) MarshalText() ([]byte, error) { return hexutil.Bytes(c[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (c *KZGCommitment) UnmarshalText(in []byte) error {
	return hexutil.UnmarshalFixedText("KZGCommitment", in, c[:])
}

// MarshalText encodes the proof as 0x-prefixed hex.
func (p KZGProof) MarshalText() ([]byte, error) { return hexutil.Bytes(p[:]).MarshalText() }

// UnmarshalText decodes 0x-prefixed hex.
func (p *KZGProof) UnmarshalText(in []byte) error {
	return hexutil.UnmarshalFixedText("KZGProof", in, p[:])
}

// shortHex abbreviates large byte values in log lines.
func shortHex(b []byte) string {
	if len(b) <= 8 {
		return hexutil.Encode(b)
	}
	return "0x" + hex.EncodeToString(b[:4]) + ".." + hex.EncodeToString(b[len(b)-4:])
}

// Leaf codecs shared by the container definitions.
var (
	slotCodec      = ssz.Uint64[Slot]()
	epochCodec     = ssz.Uint64[Epoch]()
	indexCodec     = ssz.Uint64[ValidatorIndex]()
	committeeCodec = ssz.Uint64[CommitteeIndex]()
	gweiCodec      = ssz.Uint64[Gwei]()
	u64Codec       = ssz.Uint64[uint64]()
	rootCodec      = ssz.Hash()
	addressCodec   = ssz.Address()
	versionCodec   = ssz.FixedBytes[Version]()
	pubkeyCodec    = ssz.FixedBytes[BLSPubkey]()
	sigCodec       = ssz.FixedBytes[BLSSignature]()
	bloomCodec     = ssz.FixedBytes[Bloom]()
	blobCodec      = ssz.FixedBytes[Blob]()
	commitCodec    = ssz.FixedBytes[KZGCommitment]()
	proofCodec     = ssz.FixedBytes[KZGProof]()
)
