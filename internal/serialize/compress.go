package serialize

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// MaxDecodedSize bounds the memory a single Decompress call may use.
const MaxDecodedSize = 64 << 20

// codec holds the process-wide zstd encoder and decoder. Both are safe
// for concurrent EncodeAll/DecodeAll calls.
type codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var (
	codecOnce sync.Once
	shared    *codec
	codecErr  error
)

func sharedCodec() (*codec, error) {
	codecOnce.Do(func() {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			codecErr = fmt.Errorf("failed to create zstd encoder: %w", err)
			return
		}
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderMaxMemory(MaxDecodedSize),
			zstd.WithDecoderConcurrency(0),
		)
		if err != nil {
			enc.Close()
			codecErr = fmt.Errorf("failed to create zstd decoder: %w", err)
			return
		}
		shared = &codec{encoder: enc, decoder: dec}
	})
	return shared, codecErr
}

// Compress returns data compressed with ZStandard at the default level.
// Empty input yields empty output.
func Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	c, err := sharedCodec()
	if err != nil {
		return nil, err
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress reverses Compress. Frames that would decode to more than
// MaxDecodedSize bytes are rejected.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	c, err := sharedCodec()
	if err != nil {
		return nil, err
	}
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
