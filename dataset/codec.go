package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the block compression of a dataset file.
type Codec uint8

const (
	// CodecNone stores records as is.
	CodecNone Codec = 0
	// CodecLZ4 uses LZ4 block compression (fast).
	CodecLZ4 Codec = 1
	// CodecZstd uses Zstandard (better ratio). It is the default.
	CodecZstd Codec = 2
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec maps "none", "lz4" and "zstd" to a Codec.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd", "zst":
		return CodecZstd, nil
	default:
		return CodecNone, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
}

var (
	// ErrUnknownCodec is returned for codec names or ids this package does not know.
	ErrUnknownCodec = errors.New("dataset: unknown codec")
	// ErrCorrupt is returned when a file does not decode.
	ErrCorrupt = errors.New("dataset: corrupt data")
)

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize 0 means the data is stored uncompressed.
const blockHeaderSize = 8

// maxBlockSize bounds a single record.
const maxBlockSize = 1 << 30

type compressor struct {
	codec Codec
	zenc  *zstd.Encoder
	zdec  *zstd.Decoder
}

func newCompressor(c Codec) (*compressor, error) {
	switch c {
	case CodecNone, CodecLZ4:
		return &compressor{codec: c}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			enc.Close()
			return nil, err
		}
		return &compressor{codec: c, zenc: enc, zdec: dec}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
}

func (c *compressor) close() {
	if c.zenc != nil {
		c.zenc.Close()
	}
	if c.zdec != nil {
		c.zdec.Close()
	}
}

// compress returns data framed with a block header. Data that does not
// shrink is stored uncompressed.
func (c *compressor) compress(data []byte) ([]byte, error) {
	var packed []byte
	switch c.codec {
	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CodecZstd:
		packed = c.zenc.EncodeAll(data, nil)
	}

	if len(packed) == 0 || len(packed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[blockHeaderSize:], data)
		return out, nil
	}
	out := make([]byte, blockHeaderSize+len(packed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(packed)))
	copy(out[blockHeaderSize:], packed)
	return out, nil
}

// decompress expands a block body given its header fields.
func (c *compressor) decompress(body []byte, rawSize uint32) ([]byte, error) {
	out := make([]byte, rawSize)
	switch c.codec {
	case CodecLZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CodecZstd:
		decoded, err := c.zdec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed block in an uncompressed file", ErrCorrupt)
	}
}
