package types

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	goethkzg "github.com/crate-crypto/go-eth-kzg"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/maxatome/go-testdeep/td"

	"github.com/eth2030/sszb/ssz"
)

// --- Layout ---

func TestStaticSizes(t *testing.T) {
	c := NewCodecs(Mainnet)
	tests := []struct {
		name string
		s    ssz.Sizer
		want int
	}{
		{"Fork", c.Fork, 16},
		{"Checkpoint", c.Checkpoint, 40},
		{"AttestationData", c.AttestationData, 128},
		{"BeaconBlockHeader", c.BeaconBlockHeader, 112},
		{"SignedBeaconBlockHeader", c.SignedBeaconBlockHeader, 208},
		{"Eth1Data", c.Eth1Data, 72},
		{"DepositData", c.DepositData, 184},
		{"Deposit", c.Deposit, 33*32 + 184},
		{"ProposerSlashing", c.ProposerSlashing, 416},
		{"VoluntaryExit", c.VoluntaryExit, 16},
		{"SignedVoluntaryExit", c.SignedVoluntaryExit, 112},
		{"Validator", c.Validator, 121},
		{"Withdrawal", c.Withdrawal, WithdrawalSize},
		{"BLSToExecutionChange", c.BLSToExecutionChange, 76},
		{"SignedBLSToExecutionChange", c.SignedBLSToExecutionChange, 172},
		{"SyncAggregate", c.SyncAggregate, 160},
		{"BlobSidecar", c.BlobSidecar, 131928},
		{"BlobIdentifier", c.BlobIdentifier, 40},
	}
	for _, tt := range tests {
		if !tt.s.IsStatic() {
			t.Errorf("%s: not static", tt.name)
			continue
		}
		if got := tt.s.FixedLen(); got != tt.want {
			t.Errorf("%s: FixedLen = %d, want %d", tt.name, got, tt.want)
		}
		if got := tt.s.MaxLen(); got != tt.want {
			t.Errorf("%s: MaxLen = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMinimalPresetSizes(t *testing.T) {
	c := NewCodecs(Minimal)
	if got := c.SyncAggregate.FixedLen(); got != 4+96 {
		t.Fatalf("minimal SyncAggregate = %d, want 100", got)
	}
	// Inclusion proof depth 10 instead of 17.
	if got := c.BlobSidecar.FixedLen(); got != 131928-7*32 {
		t.Fatalf("minimal BlobSidecar = %d, want %d", got, 131928-7*32)
	}
}

func TestVariableContainersAreVariable(t *testing.T) {
	c := MainnetCodecs()
	for name, s := range map[string]ssz.Sizer{
		"Attestation":       c.Attestation,
		"ExecutionPayload":  c.ExecutionPayload,
		"BeaconBlockBody":   c.BeaconBlockBody,
		"SignedBeaconBlock": c.SignedBeaconBlock,
	} {
		if s.IsStatic() {
			t.Errorf("%s: reported static", name)
		}
		if s.FixedLen() != ssz.BytesPerLengthOffset {
			t.Errorf("%s: FixedLen = %d, want offset width", name, s.FixedLen())
		}
	}
}

func TestEmptyPayloadIsFixedPart(t *testing.T) {
	c := MainnetCodecs()
	enc, err := ssz.Marshal[ExecutionPayload](c.ExecutionPayload, ExecutionPayload{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(enc) != 528 {
		t.Fatalf("empty payload = %d bytes, want 528", len(enc))
	}
	// extra_data, transactions and withdrawals all point at the end.
	for _, pos := range []int{436, 504, 508} {
		if off := binary.LittleEndian.Uint32(enc[pos:]); off != 528 {
			t.Fatalf("offset at %d = %d, want 528", pos, off)
		}
	}
}

func TestAttestationLayout(t *testing.T) {
	a := testAttestation(8, 0, 7)
	enc, err := a.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ: %v", err)
	}
	if len(enc) != 228+2 || a.SizeSSZ() != len(enc) {
		t.Fatalf("len = %d, SizeSSZ = %d, want 230", len(enc), a.SizeSSZ())
	}
	if off := binary.LittleEndian.Uint32(enc); off != 228 {
		t.Fatalf("aggregation_bits offset = %d, want 228", off)
	}
	// bits 0 and 7 set, sentinel in the next byte
	if !bytes.Equal(enc[228:], []byte{0x81, 0x01}) {
		t.Fatalf("bitlist bytes = %x", enc[228:])
	}
}

// --- Round trips ---

func TestSignedBeaconBlockRoundTrip(t *testing.T) {
	for _, p := range []Preset{Mainnet, Minimal} {
		t.Run(p.Name, func(t *testing.T) {
			c := NewCodecs(p)
			blk := testBlock(p)

			enc, err := ssz.Marshal[SignedBeaconBlock](c.SignedBeaconBlock, blk)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if len(enc) != c.SignedBeaconBlock.BytesLen(blk) {
				t.Fatalf("encoded %d bytes, BytesLen %d", len(enc), c.SignedBeaconBlock.BytesLen(blk))
			}
			if off := binary.LittleEndian.Uint32(enc); off != 100 {
				t.Fatalf("message offset = %d, want 100", off)
			}
			if slot := binary.LittleEndian.Uint64(enc[100:]); slot != 64 {
				t.Fatalf("slot = %d, want 64", slot)
			}

			got, err := ssz.Unmarshal[SignedBeaconBlock](c.SignedBeaconBlock, enc)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			td.Cmp(t, got, blk)

			again := c.SignedBeaconBlock.Write(nil, got)
			if !bytes.Equal(again, enc) {
				t.Fatal("re-encoding differs")
			}
		})
	}
}

func TestBlockPresetMismatch(t *testing.T) {
	// A mainnet block carries a 512-bit sync committee; minimal expects 32.
	blk := testBlock(Mainnet)
	enc, err := blk.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ: %v", err)
	}
	if _, err := ssz.Unmarshal[SignedBeaconBlock](NewCodecs(Minimal).SignedBeaconBlock, enc); err == nil {
		t.Fatal("minimal codec accepted a mainnet block")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	p := testPayload()
	enc, err := p.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ: %v", err)
	}
	var got ExecutionPayload
	if err := got.UnmarshalSSZ(enc); err != nil {
		t.Fatalf("UnmarshalSSZ: %v", err)
	}
	td.Cmp(t, got, p)
	if got.BaseFeePerGas.Uint64() != 7 {
		t.Fatalf("base fee = %s", got.BaseFeePerGas.String())
	}
}

func TestPayloadCapacity(t *testing.T) {
	c := NewCodecs(Minimal)
	p := testPayload()
	p.Withdrawals = make([]Withdrawal, Minimal.MaxWithdrawalsPerPayload+1)
	_, err := ssz.Marshal[ExecutionPayload](c.ExecutionPayload, p)
	if !errors.Is(err, ssz.ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "withdrawals") {
		t.Fatalf("error does not name the field: %v", err)
	}

	p = testPayload()
	p.ExtraData = make(hexutil.Bytes, 33)
	if _, err := p.MarshalSSZ(); !errors.Is(err, ssz.ErrCapacityExceeded) {
		t.Fatalf("extra_data: want ErrCapacityExceeded, got %v", err)
	}
}

func TestCheckpointMethods(t *testing.T) {
	cp := Checkpoint{Epoch: 5, Root: testRoot(0x77)}
	enc, err := cp.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ: %v", err)
	}
	if len(enc) != cp.SizeSSZ() || enc[0] != 5 || enc[8] != 0x77 {
		t.Fatalf("bad encoding %x", enc)
	}

	var got Checkpoint
	if err := got.UnmarshalSSZ(enc); err != nil {
		t.Fatalf("UnmarshalSSZ: %v", err)
	}
	td.Cmp(t, got, cp)

	// A failed decode leaves the receiver untouched.
	if err := got.UnmarshalSSZ(enc[:39]); !errors.Is(err, ssz.ErrInvalidByteLength) {
		t.Fatalf("want ErrInvalidByteLength, got %v", err)
	}
	td.Cmp(t, got, cp)
}

func TestWithdrawalCodec(t *testing.T) {
	c := withdrawalCodec{}
	w := Withdrawal{Index: 1, ValidatorIndex: 2, Amount: 3}
	w.Address[19] = 0xff
	enc, err := ssz.Marshal[Withdrawal](c, w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(enc) != WithdrawalSize || enc[35] != 0xff || enc[36] != 3 {
		t.Fatalf("bad encoding %x", enc)
	}
	got, err := c.FromBytes(enc)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	td.Cmp(t, got, w)

	if _, err := c.FromBytes(append(enc, 0)); !errors.Is(err, ssz.ErrInvalidByteLength) {
		t.Fatalf("trailing byte: want ErrInvalidByteLength, got %v", err)
	}
}

// --- Blob sidecars ---

func TestBlobSidecarRoundTrip(t *testing.T) {
	s := BlobSidecar{
		Index:                       1,
		KZGCommitment:               KZGCommitment{0xc0},
		KZGProof:                    KZGProof{0xd0},
		SignedBlockHeader:           testHeader(3),
		KZGCommitmentInclusionProof: make([]Root, Mainnet.KZGCommitmentInclusionProofDepth()),
	}
	s.Blob[0], s.Blob[len(s.Blob)-1] = 1, 2

	enc, err := s.MarshalSSZ()
	if err != nil {
		t.Fatalf("MarshalSSZ: %v", err)
	}
	var got BlobSidecar
	if err := got.UnmarshalSSZ(enc); err != nil {
		t.Fatalf("UnmarshalSSZ: %v", err)
	}
	td.Cmp(t, got, s)

	blob, commit, proof := got.KZG()
	if blob[len(blob)-1] != 2 || commit != (goethkzg.KZGCommitment{0xc0}) || proof != (goethkzg.KZGProof{0xd0}) {
		t.Fatal("KZG conversion lost data")
	}
}

func TestBlobSidecarProofLength(t *testing.T) {
	s := BlobSidecar{KZGCommitmentInclusionProof: make([]Root, 3)}
	if _, err := s.MarshalSSZ(); !errors.Is(err, ssz.ErrVectorLength) {
		t.Fatalf("want ErrVectorLength, got %v", err)
	}
}

// --- JSON ---

func TestJSONHex(t *testing.T) {
	a := testAttestation(8, 0)
	out, err := json.Marshal(&a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	for _, want := range []string{`"aggregation_bits":"0x0101"`, `"slot":9`, `"signature":"0x20`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}

	var back Attestation
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	td.Cmp(t, back, a)
}

func TestPrimitiveStrings(t *testing.T) {
	if got := (Version{0, 0, 0, 1}).String(); got != "0x00000001" {
		t.Fatalf("Version = %s", got)
	}
	if got := testPubkey(0xab).String(); got != "0xab000000..000000ab" {
		t.Fatalf("BLSPubkey = %s", got)
	}
}
