package cache

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Entries are stored as zstd-compressed JSON. Encoder and decoder are safe
// for concurrent EncodeAll/DecodeAll calls, so one of each is shared.
var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func initCodec() {
	encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if codecErr != nil {
		return
	}
	decoder, codecErr = zstd.NewReader(nil)
}

// EncodeEntry serializes an entry for storage
func EncodeEntry(e *Entry) ([]byte, error) {
	codecOnce.Do(initCodec)
	if codecErr != nil {
		return nil, fmt.Errorf("zstd codec: %w", codecErr)
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// DecodeEntry is the inverse of EncodeEntry
func DecodeEntry(data []byte) (*Entry, error) {
	codecOnce.Do(initCodec)
	if codecErr != nil {
		return nil, fmt.Errorf("zstd codec: %w", codecErr)
	}

	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cache entry: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &e, nil
}
