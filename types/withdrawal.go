package types

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/sszb/ssz"
)

// WithdrawalSize is the fixed SSZ size of a single Withdrawal:
// index(8) + validatorIndex(8) + address(20) + amount(8) = 44 bytes.
const WithdrawalSize = 44

// Withdrawal is an EIP-4895 validator withdrawal carried in the execution
// payload.
type Withdrawal struct {
	Index          uint64         `json:"index"`
	ValidatorIndex ValidatorIndex `json:"validator_index"`
	Address        common.Address `json:"address"`
	Amount         Gwei           `json:"amount"`
}

// withdrawalCodec encodes Withdrawal without going through field
// registration. Layout:
//
//	index(8) || validatorIndex(8) || address(20) || amount(8)
type withdrawalCodec struct{}

func (withdrawalCodec) IsStatic() bool { return true }

func (withdrawalCodec) FixedLen() int { return WithdrawalSize }

func (withdrawalCodec) MaxLen() int { return WithdrawalSize }

func (withdrawalCodec) BytesLen(Withdrawal) int { return WithdrawalSize }

func (c withdrawalCodec) WriteFixed(dst []byte, w Withdrawal, _ *int) []byte { return c.Write(dst, w) }

func (withdrawalCodec) WriteVariable(dst []byte, _ Withdrawal) []byte { return dst }

func (withdrawalCodec) Write(dst []byte, w Withdrawal) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, w.Index)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(w.ValidatorIndex))
	dst = append(dst, w.Address[:]...)
	return binary.LittleEndian.AppendUint64(dst, uint64(w.Amount))
}

func (withdrawalCodec) Read(fixed, _ *ssz.Reader) (Withdrawal, error) {
	b, err := fixed.Next(WithdrawalSize)
	if err != nil {
		return Withdrawal{}, err
	}
	w := Withdrawal{
		Index:          binary.LittleEndian.Uint64(b[0:8]),
		ValidatorIndex: ValidatorIndex(binary.LittleEndian.Uint64(b[8:16])),
		Amount:         Gwei(binary.LittleEndian.Uint64(b[36:44])),
	}
	copy(w.Address[:], b[16:36])
	return w, nil
}

func (c withdrawalCodec) FromBytes(b []byte) (Withdrawal, error) {
	if len(b) != WithdrawalSize {
		return Withdrawal{}, fmt.Errorf("%w: withdrawal of %d bytes, want %d",
			ssz.ErrInvalidByteLength, len(b), WithdrawalSize)
	}
	return c.Read(ssz.NewReader(b), nil)
}

// BLSToExecutionChange switches a validator's withdrawal credentials from a
// BLS key to an execution address.
type BLSToExecutionChange struct {
	ValidatorIndex     ValidatorIndex `json:"validator_index"`
	FromBLSPubkey      BLSPubkey      `json:"from_bls_pubkey"`
	ToExecutionAddress common.Address `json:"to_execution_address"`
}

// SignedBLSToExecutionChange is a BLSToExecutionChange with its signature.
type SignedBLSToExecutionChange struct {
	Message   BLSToExecutionChange `json:"message"`
	Signature BLSSignature         `json:"signature"`
}

func blsChangeCodec() *ssz.Container[BLSToExecutionChange] {
	return ssz.NewContainer[BLSToExecutionChange](
		ssz.Field("validator_index", indexCodec, func(c *BLSToExecutionChange) *ValidatorIndex { return &c.ValidatorIndex }),
		ssz.Field("from_bls_pubkey", pubkeyCodec, func(c *BLSToExecutionChange) *BLSPubkey { return &c.FromBLSPubkey }),
		ssz.Field("to_execution_address", addressCodec,
			func(c *BLSToExecutionChange) *common.Address { return &c.ToExecutionAddress }),
	)
}

func signedBLSChangeCodec(bc *ssz.Container[BLSToExecutionChange]) *ssz.Container[SignedBLSToExecutionChange] {
	return ssz.NewContainer[SignedBLSToExecutionChange](
		ssz.Field[SignedBLSToExecutionChange, BLSToExecutionChange]("message", bc,
			func(s *SignedBLSToExecutionChange) *BLSToExecutionChange { return &s.Message }),
		ssz.Field("signature", sigCodec, func(s *SignedBLSToExecutionChange) *BLSSignature { return &s.Signature }),
	)
}
