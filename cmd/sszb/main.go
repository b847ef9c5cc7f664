// Command sszb inspects SSZ-encoded consensus objects.
//
// Usage:
//
//	sszb [global flags] <command> [command flags] [args]
//
// Commands:
//
//	types                       List registered types with their layout
//	decode -type T <file|->     Decode a payload and print it as JSON
//	check  -type T <files...>   Verify decode/re-encode is byte-exact
//	encode -type T <json|->     Encode a JSON value to SSZ
//
// Global flags:
//
//	--config      Config file of key = value lines
//	--preset      Capacity preset: mainnet, minimal (default: mainnet)
//	--verbosity   Log level 0-5 (default: 2)
//	--log.format  Log format: json, text, color, auto (default: auto)
//	--metrics     Print Prometheus codec metrics to stderr on exit
//	--version     Print version and exit
//
// Command flags -hex and -snappy select 0x-hex and snappy block framing of
// the SSZ payload. Files ending in .ssz_snappy are always decompressed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/eth2030/sszb/log"
	"github.com/eth2030/sszb/metrics"
	"github.com/eth2030/sszb/types"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

// errUsage marks command-line mistakes, which exit with status 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	return runWith(args, os.Stdin, os.Stdout, os.Stderr)
}

// app carries the resolved configuration and I/O of one invocation.
type app struct {
	cfg      Config
	registry *types.Registry
	stats    *typeStats
	log      *log.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, rest, exit, code := parseFlags(args, stdout, stderr)
	if exit {
		return code
	}

	format, _ := log.ParseFormat(cfg.LogFormat)
	log.SetDefault(log.NewWriter(stderr, log.VerbosityToLevel(cfg.Verbosity), log.ResolveFormat(format, stderr)))
	logger := log.Default().Module("cmd")
	logger.Debug("configuration resolved",
		"preset", cfg.Preset, "verbosity", cfg.Verbosity, "config", cfg.ConfigFile, "metrics", cfg.Metrics)

	if len(rest) == 0 {
		fmt.Fprintln(stderr, "Error: missing command (types, decode, check, encode)")
		return 2
	}

	codecs, err := types.CodecsFor(cfg.Preset)
	if err != nil {
		logger.Error("invalid preset", "err", err)
		return 1
	}
	a := &app{
		cfg:      cfg,
		registry: types.DefaultRegistry(codecs),
		stats:    newTypeStats(),
		log:      logger,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}
	metrics.TypesRegistered.Set(int64(a.registry.Len()))

	err = a.dispatch(rest[0], rest[1:])
	if cfg.Metrics {
		a.writeMetrics()
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	default:
		logger.Error("command failed", "command", rest[0], "err", err)
		return 1
	}
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "types":
		return a.cmdTypes(args)
	case "decode":
		return a.cmdDecode(args)
	case "check":
		return a.cmdCheck(args)
	case "encode":
		return a.cmdEncode(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// parseFlags resolves the configuration. Flags are parsed twice: once to
// find -config, then again over the file and environment values so that
// explicit flags win. It returns the config, the remaining arguments,
// whether the caller should exit immediately and the exit code.
func parseFlags(args []string, stdout, stderr io.Writer) (Config, []string, bool, int) {
	var configPath string
	first := DefaultConfig()
	fs := newGlobalFlagSet(&first, &configPath, io.Discard)
	fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		// Report the error with usage from the real pass below.
		configPath = ""
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cfg, nil, true, 1
	}
	ApplyEnvironment(&cfg)

	fs = newGlobalFlagSet(&cfg, &configPath, stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, nil, true, 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cfg, nil, true, 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "sszb %s (commit %s)\n", version, commit)
		return cfg, nil, true, 0
	}
	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cfg, nil, true, 2
	}
	return cfg, fs.Args(), false, 0
}
