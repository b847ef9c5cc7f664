package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/eth2030/sszb/ssz"
)

func testRoot(b byte) Root {
	var r Root
	for i := range r {
		r[i] = b
	}
	return r
}

func testSig(b byte) BLSSignature {
	var s BLSSignature
	s[0], s[95] = b, b
	return s
}

func testPubkey(b byte) BLSPubkey {
	var k BLSPubkey
	k[0], k[47] = b, b
	return k
}

func testAttestationData(slot Slot) AttestationData {
	return AttestationData{
		Slot:            slot,
		Index:           3,
		BeaconBlockRoot: testRoot(0xaa),
		Source:          Checkpoint{Epoch: 1, Root: testRoot(0x01)},
		Target:          Checkpoint{Epoch: 2, Root: testRoot(0x02)},
	}
}

func testHeader(slot Slot) SignedBeaconBlockHeader {
	return SignedBeaconBlockHeader{
		Message: BeaconBlockHeader{
			Slot:          slot,
			ProposerIndex: 7,
			ParentRoot:    testRoot(0x10),
			StateRoot:     testRoot(0x11),
			BodyRoot:      testRoot(0x12),
		},
		Signature: testSig(0x13),
	}
}

func testAttestation(bits int, set ...int) Attestation {
	bl, err := ssz.NewBitlist(bits)
	if err != nil {
		panic(err)
	}
	for _, i := range set {
		bl.Set(i)
	}
	return Attestation{AggregationBits: bl, Data: testAttestationData(9), Signature: testSig(0x20)}
}

func testDeposit() Deposit {
	proof := make([]Root, DepositContractTreeDepth+1)
	for i := range proof {
		proof[i] = testRoot(byte(i))
	}
	return Deposit{
		Proof: proof,
		Data: DepositData{
			Pubkey:                testPubkey(0x30),
			WithdrawalCredentials: testRoot(0x31),
			Amount:                32_000_000_000,
			Signature:             testSig(0x32),
		},
	}
}

func testPayload() ExecutionPayload {
	return ExecutionPayload{
		ParentHash:    common.HexToHash("0x01"),
		FeeRecipient:  common.HexToAddress("0x00000000000000000000000000000000000000fe"),
		StateRoot:     testRoot(0x40),
		ReceiptsRoot:  testRoot(0x41),
		PrevRandao:    testRoot(0x42),
		BlockNumber:   100,
		GasLimit:      30_000_000,
		GasUsed:       21_000,
		Timestamp:     1_700_000_000,
		ExtraData:     hexutil.Bytes("sszb"),
		BaseFeePerGas: *uint256.NewInt(7),
		BlockHash:     common.HexToHash("0x02"),
		Transactions:  []hexutil.Bytes{{0x02, 0xf8, 0x01}, {0x01}},
		Withdrawals: []Withdrawal{
			{Index: 1, ValidatorIndex: 2, Address: common.HexToAddress("0x03"), Amount: 4},
		},
		BlobGasUsed:   131072,
		ExcessBlobGas: 0,
	}
}

func testBlock(p Preset) SignedBeaconBlock {
	bits, err := ssz.NewBitvector(p.SyncCommitteeSize)
	if err != nil {
		panic(err)
	}
	bits.Set(0)
	bits.Set(p.SyncCommitteeSize - 1)

	return SignedBeaconBlock{
		Message: BeaconBlock{
			Slot:          64,
			ProposerIndex: 5,
			ParentRoot:    testRoot(0x50),
			StateRoot:     testRoot(0x51),
			Body: BeaconBlockBody{
				RandaoReveal: testSig(0x52),
				Eth1Data:     Eth1Data{DepositRoot: testRoot(0x53), DepositCount: 9, BlockHash: testRoot(0x54)},
				Graffiti:     testRoot(0x55),
				ProposerSlashings: []ProposerSlashing{
					{SignedHeader1: testHeader(1), SignedHeader2: testHeader(1)},
				},
				AttesterSlashings: []AttesterSlashing{{
					Attestation1: IndexedAttestation{
						AttestingIndices: []ValidatorIndex{1, 2, 3},
						Data:             testAttestationData(4),
						Signature:        testSig(0x56),
					},
					Attestation2: IndexedAttestation{
						AttestingIndices: []ValidatorIndex{2},
						Data:             testAttestationData(4),
						Signature:        testSig(0x57),
					},
				}},
				Attestations:     []Attestation{testAttestation(8, 0, 7), testAttestation(20, 3)},
				Deposits:         []Deposit{testDeposit()},
				VoluntaryExits:   []SignedVoluntaryExit{{Message: VoluntaryExit{Epoch: 3, ValidatorIndex: 11}}},
				SyncAggregate:    SyncAggregate{SyncCommitteeBits: bits, SyncCommitteeSignature: testSig(0x58)},
				ExecutionPayload: testPayload(),
				BLSToExecutionChanges: []SignedBLSToExecutionChange{{
					Message: BLSToExecutionChange{
						ValidatorIndex:     12,
						FromBLSPubkey:      testPubkey(0x59),
						ToExecutionAddress: common.HexToAddress("0x05"),
					},
					Signature: testSig(0x5a),
				}},
				BlobKZGCommitments: []KZGCommitment{{0xc0}, {0xc1}},
			},
		},
		Signature: testSig(0x5b),
	}
}

func testValidator(i byte) Validator {
	return Validator{
		Pubkey:                     testPubkey(i),
		WithdrawalCredentials:      testRoot(i),
		EffectiveBalance:           32_000_000_000,
		ActivationEligibilityEpoch: 1,
		ActivationEpoch:            2,
		ExitEpoch:                  Epoch(^uint64(0)),
		WithdrawableEpoch:          Epoch(^uint64(0)),
	}
}
