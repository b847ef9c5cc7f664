package types

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/sszb/ssz"
)

// Fork identifies the active fork at an epoch.
type Fork struct {
	PreviousVersion Version `json:"previous_version"`
	CurrentVersion  Version `json:"current_version"`
	Epoch           Epoch   `json:"epoch"`
}

// Checkpoint is a finality checkpoint (epoch + block root).
type Checkpoint struct {
	Epoch Epoch `json:"epoch"`
	Root  Root  `json:"root"`
}

// AttestationData is the data validators sign when attesting.
type AttestationData struct {
	Slot            Slot           `json:"slot"`
	Index           CommitteeIndex `json:"index"`
	BeaconBlockRoot Root           `json:"beacon_block_root"`
	Source          Checkpoint     `json:"source"`
	Target          Checkpoint     `json:"target"`
}

// BeaconBlockHeader commits to a block body by root.
type BeaconBlockHeader struct {
	Slot          Slot           `json:"slot"`
	ProposerIndex ValidatorIndex `json:"proposer_index"`
	ParentRoot    Root           `json:"parent_root"`
	StateRoot     Root           `json:"state_root"`
	BodyRoot      Root           `json:"body_root"`
}

// SignedBeaconBlockHeader is a header with the proposer's signature.
type SignedBeaconBlockHeader struct {
	Message   BeaconBlockHeader `json:"message"`
	Signature BLSSignature      `json:"signature"`
}

// Eth1Data references the deposit contract state.
type Eth1Data struct {
	DepositRoot  Root        `json:"deposit_root"`
	DepositCount uint64      `json:"deposit_count"`
	BlockHash    common.Hash `json:"block_hash"`
}

// DepositData is the payload of a deposit contract log.
type DepositData struct {
	Pubkey                BLSPubkey    `json:"pubkey"`
	WithdrawalCredentials Root         `json:"withdrawal_credentials"`
	Amount                Gwei         `json:"amount"`
	Signature             BLSSignature `json:"signature"`
}

// Deposit is a DepositData with its Merkle proof against the deposit root.
type Deposit struct {
	Proof []Root      `json:"proof"` // DepositContractTreeDepth+1 nodes
	Data  DepositData `json:"data"`
}

// ProposerSlashing proves two conflicting headers for one slot.
type ProposerSlashing struct {
	SignedHeader1 SignedBeaconBlockHeader `json:"signed_header_1"`
	SignedHeader2 SignedBeaconBlockHeader `json:"signed_header_2"`
}

// VoluntaryExit requests a validator exit.
type VoluntaryExit struct {
	Epoch          Epoch          `json:"epoch"`
	ValidatorIndex ValidatorIndex `json:"validator_index"`
}

// SignedVoluntaryExit is a VoluntaryExit with the validator's signature.
type SignedVoluntaryExit struct {
	Message   VoluntaryExit `json:"message"`
	Signature BLSSignature  `json:"signature"`
}

// Validator is one entry of the beacon state validator registry.
type Validator struct {
	Pubkey                     BLSPubkey `json:"pubkey"`
	WithdrawalCredentials      Root      `json:"withdrawal_credentials"`
	EffectiveBalance           Gwei      `json:"effective_balance"`
	Slashed                    bool      `json:"slashed"`
	ActivationEligibilityEpoch Epoch     `json:"activation_eligibility_epoch"`
	ActivationEpoch            Epoch     `json:"activation_epoch"`
	ExitEpoch                  Epoch     `json:"exit_epoch"`
	WithdrawableEpoch          Epoch     `json:"withdrawable_epoch"`
}

func forkCodec() *ssz.Container[Fork] {
	return ssz.NewContainer[Fork](
		ssz.Field("previous_version", versionCodec, func(f *Fork) *Version { return &f.PreviousVersion }),
		ssz.Field("current_version", versionCodec, func(f *Fork) *Version { return &f.CurrentVersion }),
		ssz.Field("epoch", epochCodec, func(f *Fork) *Epoch { return &f.Epoch }),
	)
}

func checkpointCodec() *ssz.Container[Checkpoint] {
	return ssz.NewContainer[Checkpoint](
		ssz.Field("epoch", epochCodec, func(c *Checkpoint) *Epoch { return &c.Epoch }),
		ssz.Field("root", rootCodec, func(c *Checkpoint) *Root { return &c.Root }),
	)
}

func attestationDataCodec(cp *ssz.Container[Checkpoint]) *ssz.Container[AttestationData] {
	return ssz.NewContainer[AttestationData](
		ssz.Field("slot", slotCodec, func(d *AttestationData) *Slot { return &d.Slot }),
		ssz.Field("index", committeeCodec, func(d *AttestationData) *CommitteeIndex { return &d.Index }),
		ssz.Field("beacon_block_root", rootCodec, func(d *AttestationData) *Root { return &d.BeaconBlockRoot }),
		ssz.Field[AttestationData, Checkpoint]("source", cp, func(d *AttestationData) *Checkpoint { return &d.Source }),
		ssz.Field[AttestationData, Checkpoint]("target", cp, func(d *AttestationData) *Checkpoint { return &d.Target }),
	)
}

func beaconBlockHeaderCodec() *ssz.Container[BeaconBlockHeader] {
	return ssz.NewContainer[BeaconBlockHeader](
		ssz.Field("slot", slotCodec, func(h *BeaconBlockHeader) *Slot { return &h.Slot }),
		ssz.Field("proposer_index", indexCodec, func(h *BeaconBlockHeader) *ValidatorIndex { return &h.ProposerIndex }),
		ssz.Field("parent_root", rootCodec, func(h *BeaconBlockHeader) *Root { return &h.ParentRoot }),
		ssz.Field("state_root", rootCodec, func(h *BeaconBlockHeader) *Root { return &h.StateRoot }),
		ssz.Field("body_root", rootCodec, func(h *BeaconBlockHeader) *Root { return &h.BodyRoot }),
	)
}

func signedBeaconBlockHeaderCodec(hc *ssz.Container[BeaconBlockHeader]) *ssz.Container[SignedBeaconBlockHeader] {
	return ssz.NewContainer[SignedBeaconBlockHeader](
		ssz.Field[SignedBeaconBlockHeader, BeaconBlockHeader]("message", hc,
			func(s *SignedBeaconBlockHeader) *BeaconBlockHeader { return &s.Message }),
		ssz.Field("signature", sigCodec, func(s *SignedBeaconBlockHeader) *BLSSignature { return &s.Signature }),
	)
}

func eth1DataCodec() *ssz.Container[Eth1Data] {
	return ssz.NewContainer[Eth1Data](
		ssz.Field("deposit_root", rootCodec, func(e *Eth1Data) *Root { return &e.DepositRoot }),
		ssz.Field("deposit_count", u64Codec, func(e *Eth1Data) *uint64 { return &e.DepositCount }),
		ssz.Field("block_hash", rootCodec, func(e *Eth1Data) *common.Hash { return &e.BlockHash }),
	)
}

func depositDataCodec() *ssz.Container[DepositData] {
	return ssz.NewContainer[DepositData](
		ssz.Field("pubkey", pubkeyCodec, func(d *DepositData) *BLSPubkey { return &d.Pubkey }),
		ssz.Field("withdrawal_credentials", rootCodec, func(d *DepositData) *Root { return &d.WithdrawalCredentials }),
		ssz.Field("amount", gweiCodec, func(d *DepositData) *Gwei { return &d.Amount }),
		ssz.Field("signature", sigCodec, func(d *DepositData) *BLSSignature { return &d.Signature }),
	)
}

func depositCodec(dd *ssz.Container[DepositData]) *ssz.Container[Deposit] {
	return ssz.NewContainer[Deposit](
		ssz.Field("proof", ssz.Vector(rootCodec, DepositContractTreeDepth+1), func(d *Deposit) *[]Root { return &d.Proof }),
		ssz.Field[Deposit, DepositData]("data", dd, func(d *Deposit) *DepositData { return &d.Data }),
	)
}

func proposerSlashingCodec(sh *ssz.Container[SignedBeaconBlockHeader]) *ssz.Container[ProposerSlashing] {
	return ssz.NewContainer[ProposerSlashing](
		ssz.Field[ProposerSlashing, SignedBeaconBlockHeader]("signed_header_1", sh,
			func(p *ProposerSlashing) *SignedBeaconBlockHeader { return &p.SignedHeader1 }),
		ssz.Field[ProposerSlashing, SignedBeaconBlockHeader]("signed_header_2", sh,
			func(p *ProposerSlashing) *SignedBeaconBlockHeader { return &p.SignedHeader2 }),
	)
}

func voluntaryExitCodec() *ssz.Container[VoluntaryExit] {
	return ssz.NewContainer[VoluntaryExit](
		ssz.Field("epoch", epochCodec, func(e *VoluntaryExit) *Epoch { return &e.Epoch }),
		ssz.Field("validator_index", indexCodec, func(e *VoluntaryExit) *ValidatorIndex { return &e.ValidatorIndex }),
	)
}

func signedVoluntaryExitCodec(ve *ssz.Container[VoluntaryExit]) *ssz.Container[SignedVoluntaryExit] {
	return ssz.NewContainer[SignedVoluntaryExit](
		ssz.Field[SignedVoluntaryExit, VoluntaryExit]("message", ve,
			func(s *SignedVoluntaryExit) *VoluntaryExit { return &s.Message }),
		ssz.Field("signature", sigCodec, func(s *SignedVoluntaryExit) *BLSSignature { return &s.Signature }),
	)
}

func validatorCodec() *ssz.Container[Validator] {
	return ssz.NewContainer[Validator](
		ssz.Field("pubkey", pubkeyCodec, func(v *Validator) *BLSPubkey { return &v.Pubkey }),
		ssz.Field("withdrawal_credentials", rootCodec, func(v *Validator) *Root { return &v.WithdrawalCredentials }),
		ssz.Field("effective_balance", gweiCodec, func(v *Validator) *Gwei { return &v.EffectiveBalance }),
		ssz.Field("slashed", ssz.Bool(), func(v *Validator) *bool { return &v.Slashed }),
		ssz.Field("activation_eligibility_epoch", epochCodec, func(v *Validator) *Epoch { return &v.ActivationEligibilityEpoch }),
		ssz.Field("activation_epoch", epochCodec, func(v *Validator) *Epoch { return &v.ActivationEpoch }),
		ssz.Field("exit_epoch", epochCodec, func(v *Validator) *Epoch { return &v.ExitEpoch }),
		ssz.Field("withdrawable_epoch", epochCodec, func(v *Validator) *Epoch { return &v.WithdrawableEpoch }),
	)
}
