// Package compress implements the block codecs used to ship artifacts to and
// from remote blob storage.
//
// Artifacts are always stored uncompressed on local disk because they are
// memory-mapped; compression only applies in transit.
//
// Frame format:
//
//	[Codec uint8][UncompressedSize uint32][CompressedSize uint32][Data...]
//
// CompressedSize == 0 means Data is stored verbatim (incompressible input or
// CodecNone).
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a compression algorithm.
type Codec uint8

const (
	// None stores data verbatim.
	None Codec = 0
	// LZ4 is fast block compression.
	LZ4 Codec = 1
	// ZSTD trades speed for ratio; the default for publishing.
	ZSTD Codec = 2
)

const headerSize = 9

var (
	// ErrCorruptFrame is returned when a frame header or payload is inconsistent.
	ErrCorruptFrame = errors.New("compress: corrupt frame")
	// ErrUnknownCodec is returned for codec names or ids that are not supported.
	ErrUnknownCodec = errors.New("compress: unknown codec")
	// ErrTooLarge is returned for inputs that do not fit the 32-bit frame sizes.
	ErrTooLarge = errors.New("compress: input too large")
)

// String returns the stable codec name.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec resolves a codec by name. The empty string selects ZSTD.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "zstd":
		return ZSTD, nil
	case "lz4":
		return LZ4, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode compresses data into a self-describing frame.
// If compression does not save at least 10%, the data is stored verbatim.
func Encode(c Codec, data []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	var compressed []byte
	switch c {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		putHeader(out, c, len(data), 0)
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	putHeader(out, c, len(data), len(compressed))
	copy(out[headerSize:], compressed)
	return out, nil
}

func putHeader(dst []byte, c Codec, uncompressed, compressed int) {
	dst[0] = byte(c)
	binary.LittleEndian.PutUint32(dst[1:], uint32(uncompressed))
	binary.LittleEndian.PutUint32(dst[5:], uint32(compressed))
}

// Decode reverses Encode. The codec is read from the frame header.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, fmt.Errorf("%w: frame shorter than header", ErrCorruptFrame)
	}

	c := Codec(frame[0])
	uncompressedSize := binary.LittleEndian.Uint32(frame[1:])
	compressedSize := binary.LittleEndian.Uint32(frame[5:])
	body := frame[headerSize:]

	if compressedSize == 0 {
		if uint64(len(body)) != uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: stored size %d, have %d", ErrCorruptFrame, uncompressedSize, len(body))
		}
		return body, nil
	}
	if uint64(len(body)) != uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed size %d, have %d", ErrCorruptFrame, compressedSize, len(body))
	}

	result := make([]byte, uncompressedSize)
	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptFrame)
		}
		return result, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(body, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptFrame)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
}
