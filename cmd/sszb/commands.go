package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"go.uber.org/multierr"

	"github.com/eth2030/sszb/crypto"
	"github.com/eth2030/sszb/metrics"
	"github.com/eth2030/sszb/types"
)

// ErrRoundTripMismatch is returned by check when re-encoding a decoded value
// does not reproduce the input bytes.
var ErrRoundTripMismatch = errors.New("re-encoding differs from input")

func (a *app) cmdTypes(args []string) error {
	fs := newCustomFlagSet("types", a.stderr)
	if err := a.parse(fs.FlagSet, args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATIC\tFIXED\tMAX")
	for _, info := range a.registry.Types() {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%d\n", info.Name, info.IsStatic, info.FixedLen, info.MaxLen)
	}
	return tw.Flush()
}

func (a *app) cmdDecode(args []string) error {
	fs, cf := newCommandFlagSet("decode", &a.cfg, a.stderr)
	if err := a.parse(fs.FlagSet, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: decode takes one input (file or -)", errUsage)
	}
	info, err := a.lookup(cf)
	if err != nil {
		return err
	}
	data, err := readPayload(fs.Arg(0), a.stdin, cf, info.MaxLen)
	if err != nil {
		return err
	}
	v, err := a.decode(info, data)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(out))
	return err
}

// cmdCheck decodes every input and verifies that encoding the result gives
// back the same bytes. All inputs are checked; failures are combined.
func (a *app) cmdCheck(args []string) error {
	fs, cf := newCommandFlagSet("check", &a.cfg, a.stderr)
	if err := a.parse(fs.FlagSet, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: check needs at least one input", errUsage)
	}
	info, err := a.lookup(cf)
	if err != nil {
		return err
	}

	var errs error
	for _, path := range fs.Args() {
		if err := a.checkOne(info, cf, path); err != nil {
			fmt.Fprintf(a.stdout, "%s: FAIL %v\n", path, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if n := len(multierr.Errors(errs)); n > 0 {
		a.log.Warn("check failed", "type", info.Name, "inputs", fs.NArg(), "failed", n)
	}
	return errs
}

func (a *app) checkOne(info *types.TypeInfo, cf *commandFlags, path string) error {
	data, err := readPayload(path, a.stdin, cf, info.MaxLen)
	if err != nil {
		return err
	}
	v, err := a.decode(info, data)
	if err != nil {
		return err
	}
	timer := metrics.NewTimer(metrics.EncodeTime)
	enc, err := info.Encode(v)
	timer.Stop()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if !bytes.Equal(enc, data) {
		metrics.RoundTripMismatches.Inc()
		return fmt.Errorf("%w: %d bytes in, %d bytes out", ErrRoundTripMismatch, len(data), len(enc))
	}
	fmt.Fprintf(a.stdout, "%s: ok size=%d keccak256=%s\n", path, len(data), crypto.Keccak256Hash(data).Hex())
	return nil
}

func (a *app) cmdEncode(args []string) error {
	fs, cf := newCommandFlagSet("encode", &a.cfg, a.stderr)
	if err := a.parse(fs.FlagSet, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: encode takes one JSON input (file or -)", errUsage)
	}
	info, err := a.lookup(cf)
	if err != nil {
		return err
	}
	src, err := readSource(fs.Arg(0), a.stdin)
	if err != nil {
		return err
	}
	v := info.New()
	if err := json.Unmarshal(src, v); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	timer := metrics.NewTimer(metrics.EncodeTime)
	enc, err := info.Encode(v)
	timer.Stop()
	if err != nil {
		return err
	}
	a.log.Debug("encoded", "type", info.Name, "size", len(enc))
	return writePayload(a.stdout, enc, cf)
}

// parse runs fs over args, mapping flag errors to usage errors. -h is
// reported as a usage error too, so the caller exits with status 2.
func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *app) lookup(cf *commandFlags) (*types.TypeInfo, error) {
	if cf.typeName == "" {
		return nil, fmt.Errorf("%w: -type is required (see 'sszb types')", errUsage)
	}
	return a.registry.Lookup(cf.typeName)
}

// decode runs the registered decoder with metrics and per-type accounting.
func (a *app) decode(info *types.TypeInfo, data []byte) (any, error) {
	metrics.DecodeTotal.Inc()
	metrics.DecodeBytes.Add(int64(len(data)))
	timer := metrics.NewTimer(metrics.DecodeTime)
	v, err := info.Decode(data)
	elapsed := timer.Stop()
	if err != nil {
		metrics.DecodeErrors.Inc()
		return nil, fmt.Errorf("decode %s: %w", info.Name, err)
	}
	a.stats.add(info.Name)
	a.log.Debug("decoded", "type", info.Name, "size", len(data), "elapsed", elapsed)
	return v, nil
}
