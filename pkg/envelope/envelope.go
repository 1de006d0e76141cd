// Package envelope applies optional transforms to a payload before it is
// hidden: zstd compression and Reed-Solomon parity. The options are not
// recorded in the image, so the same Options must be given to Unwrap.
package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/reedsolomon"
)

// Reed-Solomon Configuration
const (
	dataShards   = 4
	parityShards = 2
	totalShards  = dataShards + parityShards
)

var ErrCorrupted = errors.New("envelope corrupted")

type Options struct {
	Compress bool
	Parity   bool
}

func (o Options) Enabled() bool {
	return o.Compress || o.Parity
}

func (o Options) String() string {
	switch {
	case o.Compress && o.Parity:
		return "zstd+rs"
	case o.Compress:
		return "zstd"
	case o.Parity:
		return "rs"
	}
	return "none"
}

// Wrap compresses then adds parity, as selected by opts.
func Wrap(data []byte, opts Options) ([]byte, error) {
	var err error
	if opts.Compress {
		if data, err = compress(data); err != nil {
			return nil, err
		}
	}
	if opts.Parity {
		if data, err = addParity(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Unwrap reverses Wrap. A single damaged parity group member is repaired.
func Unwrap(data []byte, opts Options) ([]byte, error) {
	var err error
	if opts.Parity {
		if data, err = removeParity(data); err != nil {
			return nil, err
		}
	}
	if opts.Compress {
		if data, err = decompress(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func compress(data []byte) ([]byte, error) {
	var err error
	encoderOnce.Do(func() {
		encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	if err != nil {
		return nil, fmt.Errorf("zstd encode: %w", err)
	}
	if encoder == nil {
		return nil, errors.New("zstd encode: encoder unavailable")
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompress(data []byte) ([]byte, error) {
	var err error
	decoderOnce.Do(func() {
		decoder, err = zstd.NewReader(nil)
	})
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if decoder == nil {
		return nil, errors.New("zstd decode: decoder unavailable")
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decode: %v", ErrCorrupted, err)
	}
	return out, nil
}

func addParity(data []byte) ([]byte, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}

	// Prepend length (4 bytes) to strip the padding later
	payload := make([]byte, 4, 4+len(data))
	binary.BigEndian.PutUint32(payload, uint32(len(data)))
	payload = append(payload, data...)

	shards, err := enc.Split(payload)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(shards); err != nil {
		return nil, err
	}

	output := make([]byte, 0, totalShards*len(shards[0]))
	for _, shard := range shards {
		output = append(output, shard...)
	}
	return output, nil
}

func removeParity(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%totalShards != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole shard set", ErrCorrupted, len(data))
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}

	size := len(data) / totalShards
	shards := make([][]byte, totalShards)
	for i := range shards {
		shards[i] = data[i*size : (i+1)*size]
	}

	if ok, _ := enc.Verify(shards); !ok {
		if shards, err = repair(enc, shards); err != nil {
			return nil, err
		}
	}

	var joined bytes.Buffer
	if err := enc.Join(&joined, shards, size*dataShards); err != nil {
		return nil, err
	}
	out := joined.Bytes()
	length := binary.BigEndian.Uint32(out[:4])
	if uint64(len(out)) < 4+uint64(length) {
		return nil, fmt.Errorf("%w: recovered length %d exceeds data", ErrCorrupted, length)
	}
	return out[4 : 4+length], nil
}

// repair treats each shard in turn as lost and keeps the first
// reconstruction that verifies.
func repair(enc reedsolomon.Encoder, shards [][]byte) ([][]byte, error) {
	for lost := range shards {
		candidate := make([][]byte, len(shards))
		copy(candidate, shards)
		candidate[lost] = nil
		if err := enc.Reconstruct(candidate); err != nil {
			continue
		}
		if ok, _ := enc.Verify(candidate); ok {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: more than one shard damaged", ErrCorrupted)
}
