// Package compress provides the codecs applied to exported table payloads.
//
// CSV exports are rendered in memory and then passed through one of the
// codecs below before being written to disk:
//   - None: the payload is written as-is
//   - Zstd: best ratio, moderate speed (klauspost/compress, or valyala/gozstd
//     when built with the gozstd tag and cgo)
//   - S2: balanced ratio and speed (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4 block format)
//
// Use CreateCodec or GetCodec with a format.CompressionType to obtain a codec:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(csvBytes)
//
// LZ4 and S2 produce raw blocks, not framed streams; decompress them with the
// same package rather than with command line tools.
package compress
