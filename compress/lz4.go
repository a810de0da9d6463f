package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; they carry a hash table
// that is expensive to allocate per call.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4SizePrefix is the length of the little-endian uncompressed size stored
// in front of every LZ4 block, so decompression can allocate exactly once.
const lz4SizePrefix = 4

// LZ4Compressor compresses payloads into a size-prefixed LZ4 block.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression.
//
// Returns nil for empty input.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4SizePrefix+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data))) //nolint:gosec // export payloads stay far below 4GiB

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4SizePrefix:])
	if err != nil {
		return nil, err
	}

	return dst[:lz4SizePrefix+n], nil
}

// Decompress decompresses a block produced by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if len(data) < lz4SizePrefix {
		return nil, fmt.Errorf("lz4 block too short: %d bytes", len(data))
	}

	size := binary.LittleEndian.Uint32(data)
	// An LZ4 block expands by at most 255x.
	if uint64(size) > uint64(len(data)-lz4SizePrefix)*255+16 {
		return nil, fmt.Errorf("lz4 block declares %d bytes from %d bytes of input", size, len(data)-lz4SizePrefix)
	}
	buf := make([]byte, size)

	n, err := lz4.UncompressBlock(data[lz4SizePrefix:], buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	if n != int(size) {
		return nil, fmt.Errorf("lz4 decompressed size mismatch: expected %d, got %d", size, n)
	}

	return buf, nil
}
