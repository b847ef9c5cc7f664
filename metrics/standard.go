package metrics

// Codec metrics recorded by the sszb command. All of them live in
// DefaultRegistry.

var (
	// DecodeTotal counts decode attempts.
	DecodeTotal = DefaultRegistry.Counter("sszb.decode_total")
	// DecodeErrors counts decodes that returned an error.
	DecodeErrors = DefaultRegistry.Counter("sszb.decode_errors_total")
	// DecodeBytes counts input bytes handed to the decoder.
	DecodeBytes = DefaultRegistry.Counter("sszb.decode_bytes")
	// DecodeTime records decode latency in milliseconds.
	DecodeTime = DefaultRegistry.Histogram("sszb.decode_ms")
	// EncodeTime records re-encode latency in milliseconds.
	EncodeTime = DefaultRegistry.Histogram("sszb.encode_ms")
	// RoundTripMismatches counts checks whose re-encoding differed from the
	// input.
	RoundTripMismatches = DefaultRegistry.Counter("sszb.roundtrip_mismatch_total")
	// TypesRegistered tracks the number of types known to the CLI.
	TypesRegistered = DefaultRegistry.Gauge("sszb.types_registered")
)
