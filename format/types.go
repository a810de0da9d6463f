// Package format defines the enumerations shared by the export path.
package format

type (
	ExportFormat    uint8
	CompressionType uint8
)

const (
	ExportCSV     ExportFormat = 0x1 // ExportCSV writes comma-separated text with a header row.
	ExportParquet ExportFormat = 0x2 // ExportParquet writes an Apache Parquet file.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

func (f ExportFormat) String() string {
	switch f {
	case ExportCSV:
		return "CSV"
	case ExportParquet:
		return "Parquet"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
