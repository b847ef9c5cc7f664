package types

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/eth2030/sszb/ssz"
)

func TestPresetByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"mainnet", "mainnet", nil},
		{"", "mainnet", nil},
		{" Minimal ", "minimal", nil},
		{"gnosis", "", ErrUnknownPreset},
	}
	for _, tt := range tests {
		p, err := PresetByName(tt.in)
		if !errors.Is(err, tt.err) {
			t.Fatalf("PresetByName(%q): err = %v, want %v", tt.in, err, tt.err)
		}
		if p.Name != tt.want {
			t.Fatalf("PresetByName(%q) = %q, want %q", tt.in, p.Name, tt.want)
		}
	}
}

func TestInclusionProofDepth(t *testing.T) {
	if d := Mainnet.KZGCommitmentInclusionProofDepth(); d != 17 {
		t.Fatalf("mainnet depth = %d, want 17", d)
	}
	if d := Minimal.KZGCommitmentInclusionProofDepth(); d != 10 {
		t.Fatalf("minimal depth = %d, want 10", d)
	}
}

func TestCodecsForSharesInstances(t *testing.T) {
	a, err := CodecsFor("minimal")
	if err != nil {
		t.Fatalf("CodecsFor: %v", err)
	}
	b, _ := CodecsFor("MINIMAL")
	if a != b {
		t.Fatal("minimal codecs rebuilt")
	}
	if m, _ := CodecsFor("mainnet"); m != MainnetCodecs() {
		t.Fatal("mainnet codecs rebuilt")
	}
	if _, err := CodecsFor("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("want ErrUnknownPreset, got %v", err)
	}
}

// --- Type registry ---

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry(MainnetCodecs())
	if r.Len() != 27 {
		t.Fatalf("Len = %d, want 27", r.Len())
	}

	info, err := r.Lookup("checkpoint")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	td.Cmp(t, []any{info.Name, info.IsStatic, info.FixedLen, info.MaxLen}, []any{"Checkpoint", true, 40, 40})

	if _, err := r.Lookup("BeaconState"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}

	names := make([]string, 0, r.Len())
	for _, ti := range r.Types() {
		names = append(names, ti.Name)
	}
	if !slices.IsSorted(names) {
		t.Fatalf("Types not sorted: %v", names)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := Register[Checkpoint](r, "Checkpoint", checkpointCodec()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := Register[Checkpoint](r, "CHECKPOINT", checkpointCodec())
	if !errors.Is(err, ErrDuplicateType) {
		t.Fatalf("want ErrDuplicateType, got %v", err)
	}
}

func TestRegistryDecodeEncode(t *testing.T) {
	r := DefaultRegistry(MainnetCodecs())
	info, err := r.Lookup("SignedBeaconBlock")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	blk := testBlock(Mainnet)
	enc, err := info.Encode(blk)
	if err != nil {
		t.Fatalf("Encode value: %v", err)
	}
	v, err := info.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := v.(*SignedBeaconBlock)
	if !ok {
		t.Fatalf("Decode returned %T", v)
	}
	td.Cmp(t, *got, blk)

	again, err := info.Encode(v)
	if err != nil {
		t.Fatalf("Encode pointer: %v", err)
	}
	td.Cmp(t, again, enc)

	if _, err := info.Encode(Checkpoint{}); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("want ErrTypeMismatch, got %v", err)
	}
}

func TestRegistryJSONTarget(t *testing.T) {
	r := DefaultRegistry(MainnetCodecs())
	info, _ := r.Lookup("Checkpoint")

	target := info.New()
	if err := json.Unmarshal([]byte(`{"epoch":3,"root":"0x`+
		"0101010101010101010101010101010101010101010101010101010101010101"+`"}`), target); err != nil {
		t.Fatalf("json: %v", err)
	}
	enc, err := info.Encode(target)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want, _ := (&Checkpoint{Epoch: 3, Root: testRoot(1)}).MarshalSSZ()
	td.Cmp(t, enc, want)
}

func TestRegistryJSONBlock(t *testing.T) {
	for _, p := range []Preset{Mainnet, Minimal} {
		t.Run(p.Name, func(t *testing.T) {
			c := NewCodecs(p)
			r := DefaultRegistry(c)
			blk := testBlock(p)
			block, err := ssz.Marshal[SignedBeaconBlock](c.SignedBeaconBlock, blk)
			if err != nil {
				t.Fatalf("Marshal block: %v", err)
			}
			sync, err := ssz.Marshal[SyncAggregate](c.SyncAggregate, blk.Message.Body.SyncAggregate)
			if err != nil {
				t.Fatalf("Marshal sync aggregate: %v", err)
			}
			for name, data := range map[string][]byte{"SignedBeaconBlock": block, "SyncAggregate": sync} {
				info, err := r.Lookup(name)
				if err != nil {
					t.Fatalf("Lookup: %v", err)
				}
				v, err := info.Decode(data)
				if err != nil {
					t.Fatalf("Decode %s: %v", name, err)
				}
				out, err := json.Marshal(v)
				if err != nil {
					t.Fatalf("json.Marshal %s: %v", name, err)
				}
				target := info.New()
				if err := json.Unmarshal(out, target); err != nil {
					t.Fatalf("json.Unmarshal %s: %v", name, err)
				}
				again, err := info.Encode(target)
				if err != nil {
					t.Fatalf("Encode %s: %v", name, err)
				}
				td.Cmp(t, again, data)
			}
		})
	}
}

func TestRegistryDecodeError(t *testing.T) {
	r := DefaultRegistry(MainnetCodecs())
	info, _ := r.Lookup("Attestation")
	if _, err := info.Decode([]byte{1, 2, 3}); !errors.Is(err, ssz.ErrInvalidByteLength) {
		t.Fatalf("want ErrInvalidByteLength, got %v", err)
	}
}
