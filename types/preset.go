// Package types defines consensus-layer containers (Deneb fork) and their
// SSZ codecs. Capacity bounds come from a Preset, so the same Go types decode
// both mainnet and minimal-preset encodings.
package types

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrUnknownPreset is returned by PresetByName for an unrecognized name.
var ErrUnknownPreset = errors.New("types: unknown preset")

// Preset holds the capacity bounds that shape consensus containers.
type Preset struct {
	Name string

	SlotsPerEpoch uint64

	MaxValidatorsPerCommittee  int
	MaxProposerSlashings       int
	MaxAttesterSlashings       int
	MaxAttestations            int
	MaxDeposits                int
	MaxVoluntaryExits          int
	MaxBLSToExecutionChanges   int
	MaxBlobCommitmentsPerBlock int
	SyncCommitteeSize          int

	MaxWithdrawalsPerPayload  int
	MaxTransactionsPerPayload int
	MaxBytesPerTransaction    int
	MaxExtraDataBytes         int

	ValidatorRegistryLimit int
}

// DepositContractTreeDepth is the depth of the deposit contract Merkle tree.
// Deposit proofs carry one extra node for the length mix-in.
const DepositContractTreeDepth = 32

// Mainnet is the mainnet preset.
var Mainnet = Preset{
	Name:                       "mainnet",
	SlotsPerEpoch:              32,
	MaxValidatorsPerCommittee:  2048,
	MaxProposerSlashings:       16,
	MaxAttesterSlashings:       2,
	MaxAttestations:            128,
	MaxDeposits:                16,
	MaxVoluntaryExits:          16,
	MaxBLSToExecutionChanges:   16,
	MaxBlobCommitmentsPerBlock: 4096,
	SyncCommitteeSize:          512,
	MaxWithdrawalsPerPayload:   16,
	MaxTransactionsPerPayload:  1 << 20,
	MaxBytesPerTransaction:     1 << 30,
	MaxExtraDataBytes:          32,
	ValidatorRegistryLimit:     1 << 40,
}

// Minimal is the preset used by the consensus test vectors and local devnets.
var Minimal = Preset{
	Name:                       "minimal",
	SlotsPerEpoch:              8,
	MaxValidatorsPerCommittee:  2048,
	MaxProposerSlashings:       16,
	MaxAttesterSlashings:       2,
	MaxAttestations:            128,
	MaxDeposits:                16,
	MaxVoluntaryExits:          16,
	MaxBLSToExecutionChanges:   16,
	MaxBlobCommitmentsPerBlock: 32,
	SyncCommitteeSize:          32,
	MaxWithdrawalsPerPayload:   4,
	MaxTransactionsPerPayload:  1 << 20,
	MaxBytesPerTransaction:     1 << 30,
	MaxExtraDataBytes:          32,
	ValidatorRegistryLimit:     1 << 40,
}

// PresetByName returns the preset called name ("mainnet" or "minimal").
func PresetByName(name string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "":
		return Mainnet, nil
	case "minimal":
		return Minimal, nil
	default:
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// KZGCommitmentInclusionProofDepth is the length of the Merkle branch from a
// blob commitment to the block body root: four levels for the body fields,
// one for the list length and log2 of the commitment list capacity.
func (p Preset) KZGCommitmentInclusionProofDepth() int {
	return 4 + 1 + bits.Len(uint(p.MaxBlobCommitmentsPerBlock)) - 1
}
