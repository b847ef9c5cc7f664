package main

import (
	"flag"
	"io"
)

// flagSet wraps flag.FlagSet with the sszb defaults.
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior that
// prints usage to out.
func newCustomFlagSet(name string, out io.Writer) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return &flagSet{FlagSet: fs}
}

// newGlobalFlagSet binds the global flags to cfg. The config path is bound
// separately since it decides which defaults cfg starts from.
func newGlobalFlagSet(cfg *Config, configPath *string, out io.Writer) *flagSet {
	fs := newCustomFlagSet("sszb", out)
	fs.StringVar(configPath, "config", *configPath, "config file (key = value lines)")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "capacity preset (mainnet, minimal)")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 5=debug)")
	fs.StringVar(&cfg.LogFormat, "log.format", cfg.LogFormat, "log format (json, text, color, auto)")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "print Prometheus codec metrics to stderr on exit")
	return fs
}

// commandFlags holds the flags shared by the decode, check and encode
// commands.
type commandFlags struct {
	typeName string
	hex      bool
	snappy   bool
}

func newCommandFlagSet(name string, cfg *Config, out io.Writer) (*flagSet, *commandFlags) {
	cf := &commandFlags{hex: cfg.Hex, snappy: cfg.Snappy}
	fs := newCustomFlagSet(name, out)
	fs.StringVar(&cf.typeName, "type", "", "registered type name (see 'sszb types')")
	fs.BoolVar(&cf.hex, "hex", cf.hex, "SSZ payloads are 0x-prefixed hex")
	fs.BoolVar(&cf.snappy, "snappy", cf.snappy, "inputs are snappy block compressed")
	return fs, cf
}
