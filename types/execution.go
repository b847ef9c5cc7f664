package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/eth2030/sszb/ssz"
)

// ExecutionPayload is the Deneb execution block carried in a beacon block
// body. Transactions are opaque EIP-2718 envelopes.
type ExecutionPayload struct {
	ParentHash    common.Hash     `json:"parent_hash"`
	FeeRecipient  common.Address  `json:"fee_recipient"`
	StateRoot     Root            `json:"state_root"`
	ReceiptsRoot  Root            `json:"receipts_root"`
	LogsBloom     Bloom           `json:"logs_bloom"`
	PrevRandao    Root            `json:"prev_randao"`
	BlockNumber   uint64          `json:"block_number"`
	GasLimit      uint64          `json:"gas_limit"`
	GasUsed       uint64          `json:"gas_used"`
	Timestamp     uint64          `json:"timestamp"`
	ExtraData     hexutil.Bytes   `json:"extra_data"`
	BaseFeePerGas uint256.Int     `json:"base_fee_per_gas"`
	BlockHash     common.Hash     `json:"block_hash"`
	Transactions  []hexutil.Bytes `json:"transactions"`
	Withdrawals   []Withdrawal    `json:"withdrawals"`
	BlobGasUsed   uint64          `json:"blob_gas_used"`
	ExcessBlobGas uint64          `json:"excess_blob_gas"`
}

// ExecutionPayloadHeader replaces the payload's lists by their roots.
type ExecutionPayloadHeader struct {
	ParentHash       common.Hash    `json:"parent_hash"`
	FeeRecipient     common.Address `json:"fee_recipient"`
	StateRoot        Root           `json:"state_root"`
	ReceiptsRoot     Root           `json:"receipts_root"`
	LogsBloom        Bloom          `json:"logs_bloom"`
	PrevRandao       Root           `json:"prev_randao"`
	BlockNumber      uint64         `json:"block_number"`
	GasLimit         uint64         `json:"gas_limit"`
	GasUsed          uint64         `json:"gas_used"`
	Timestamp        uint64         `json:"timestamp"`
	ExtraData        hexutil.Bytes  `json:"extra_data"`
	BaseFeePerGas    uint256.Int    `json:"base_fee_per_gas"`
	BlockHash        common.Hash    `json:"block_hash"`
	TransactionsRoot Root           `json:"transactions_root"`
	WithdrawalsRoot  Root           `json:"withdrawals_root"`
	BlobGasUsed      uint64         `json:"blob_gas_used"`
	ExcessBlobGas    uint64         `json:"excess_blob_gas"`
}

func executionPayloadCodec(p Preset) *ssz.Container[ExecutionPayload] {
	type ep = ExecutionPayload
	tx := ssz.ByteList[hexutil.Bytes](p.MaxBytesPerTransaction)
	return ssz.NewContainer[ep](
		ssz.Field("parent_hash", rootCodec, func(e *ep) *common.Hash { return &e.ParentHash }),
		ssz.Field("fee_recipient", addressCodec, func(e *ep) *common.Address { return &e.FeeRecipient }),
		ssz.Field("state_root", rootCodec, func(e *ep) *Root { return &e.StateRoot }),
		ssz.Field("receipts_root", rootCodec, func(e *ep) *Root { return &e.ReceiptsRoot }),
		ssz.Field("logs_bloom", bloomCodec, func(e *ep) *Bloom { return &e.LogsBloom }),
		ssz.Field("prev_randao", rootCodec, func(e *ep) *Root { return &e.PrevRandao }),
		ssz.Field("block_number", u64Codec, func(e *ep) *uint64 { return &e.BlockNumber }),
		ssz.Field("gas_limit", u64Codec, func(e *ep) *uint64 { return &e.GasLimit }),
		ssz.Field("gas_used", u64Codec, func(e *ep) *uint64 { return &e.GasUsed }),
		ssz.Field("timestamp", u64Codec, func(e *ep) *uint64 { return &e.Timestamp }),
		ssz.Field("extra_data", ssz.ByteList[hexutil.Bytes](p.MaxExtraDataBytes),
			func(e *ep) *hexutil.Bytes { return &e.ExtraData }),
		ssz.Field("base_fee_per_gas", ssz.Uint256(), func(e *ep) *uint256.Int { return &e.BaseFeePerGas }),
		ssz.Field("block_hash", rootCodec, func(e *ep) *common.Hash { return &e.BlockHash }),
		ssz.Field("transactions", ssz.List(tx, p.MaxTransactionsPerPayload),
			func(e *ep) *[]hexutil.Bytes { return &e.Transactions }),
		ssz.Field("withdrawals", ssz.List[Withdrawal](withdrawalCodec{}, p.MaxWithdrawalsPerPayload),
			func(e *ep) *[]Withdrawal { return &e.Withdrawals }),
		ssz.Field("blob_gas_used", u64Codec, func(e *ep) *uint64 { return &e.BlobGasUsed }),
		ssz.Field("excess_blob_gas", u64Codec, func(e *ep) *uint64 { return &e.ExcessBlobGas }),
	)
}

func executionPayloadHeaderCodec(p Preset) *ssz.Container[ExecutionPayloadHeader] {
	type eh = ExecutionPayloadHeader
	return ssz.NewContainer[eh](
		ssz.Field("parent_hash", rootCodec, func(e *eh) *common.Hash { return &e.ParentHash }),
		ssz.Field("fee_recipient", addressCodec, func(e *eh) *common.Address { return &e.FeeRecipient }),
		ssz.Field("state_root", rootCodec, func(e *eh) *Root { return &e.StateRoot }),
		ssz.Field("receipts_root", rootCodec, func(e *eh) *Root { return &e.ReceiptsRoot }),
		ssz.Field("logs_bloom", bloomCodec, func(e *eh) *Bloom { return &e.LogsBloom }),
		ssz.Field("prev_randao", rootCodec, func(e *eh) *Root { return &e.PrevRandao }),
		ssz.Field("block_number", u64Codec, func(e *eh) *uint64 { return &e.BlockNumber }),
		ssz.Field("gas_limit", u64Codec, func(e *eh) *uint64 { return &e.GasLimit }),
		ssz.Field("gas_used", u64Codec, func(e *eh) *uint64 { return &e.GasUsed }),
		ssz.Field("timestamp", u64Codec, func(e *eh) *uint64 { return &e.Timestamp }),
		ssz.Field("extra_data", ssz.ByteList[hexutil.Bytes](p.MaxExtraDataBytes),
			func(e *eh) *hexutil.Bytes { return &e.ExtraData }),
		ssz.Field("base_fee_per_gas", ssz.Uint256(), func(e *eh) *uint256.Int { return &e.BaseFeePerGas }),
		ssz.Field("block_hash", rootCodec, func(e *eh) *common.Hash { return &e.BlockHash }),
		ssz.Field("transactions_root", rootCodec, func(e *eh) *Root { return &e.TransactionsRoot }),
		ssz.Field("withdrawals_root", rootCodec, func(e *eh) *Root { return &e.WithdrawalsRoot }),
		ssz.Field("blob_gas_used", u64Codec, func(e *eh) *uint64 { return &e.BlobGasUsed }),
		ssz.Field("excess_blob_gas", u64Codec, func(e *eh) *uint64 { return &e.ExcessBlobGas }),
	)
}
