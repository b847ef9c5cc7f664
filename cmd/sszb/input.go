package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/klauspost/compress/snappy"
)

// snappySuffix marks snappy-compressed SSZ files, as used by the consensus
// test vectors.
const snappySuffix = ".ssz_snappy"

// ErrInputTooLarge is returned when a compressed input claims a decoded
// size above the type's maximum encoded length.
var ErrInputTooLarge = errors.New("input exceeds type maximum")

// readSource reads path, or stdin when path is "-".
func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// readPayload loads an SSZ payload, undoing the hex and snappy wrappings the
// flags ask for. maxLen bounds the decompressed size.
func readPayload(path string, stdin io.Reader, cf *commandFlags, maxLen int) ([]byte, error) {
	data, err := readSource(path, stdin)
	if err != nil {
		return nil, err
	}
	if cf.hex {
		if data, err = decodeHex(data); err != nil {
			return nil, err
		}
	}
	if cf.snappy || strings.HasSuffix(path, snappySuffix) {
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, fmt.Errorf("snappy: %w", err)
		}
		if n > maxLen {
			return nil, fmt.Errorf("%w: %d bytes decompressed, max %d", ErrInputTooLarge, n, maxLen)
		}
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, fmt.Errorf("snappy: %w", err)
		}
	}
	return data, nil
}

// decodeHex accepts hex with or without the 0x prefix and surrounding
// whitespace.
func decodeHex(data []byte) ([]byte, error) {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return b, nil
}

// writePayload writes an SSZ encoding in the requested wrapping.
func writePayload(w io.Writer, b []byte, cf *commandFlags) error {
	if cf.snappy {
		b = snappy.Encode(nil, b)
	}
	if cf.hex {
		_, err := fmt.Fprintln(w, hexutil.Encode(b))
		return err
	}
	_, err := w.Write(b)
	return err
}
