package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the
// built-in codecs. The implementation is selected at build time: the pure Go
// klauspost/compress encoder by default, or valyala/gozstd when built with
// cgo and the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
