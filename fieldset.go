// Package fieldset provides a time-indexed field engine for heterogeneous
// time series such as spacecraft telemetry, commanded states and model
// output.
//
// Every series is held in a value.Container: an immutable array of numeric,
// text or boolean samples with a timeline, a validity mask and a unit tag.
// Series are grouped by source type ("telemetry", "states", "model") into a
// dataset.Dataset, which resolves field names across sources, computes
// derived fields on demand with dependency tracking and exports aligned
// fields as CSV or Parquet tables.
//
// # Core Features
//
//   - Hash-based field identities (64-bit xxHash64) with collision detection
//   - "Last sample at or before" time lookup over irregular sampling
//   - Masked arithmetic and comparisons with unit conversion
//   - Lazy, memoized derived fields with cycle detection
//   - Built-in recipes: moving averages, state remapping, model differences
//   - CSV export with optional compression (Zstd, S2, LZ4) and Parquet export
//
// # Basic Usage
//
//	telemetry, _ := fieldset.LoadCSV("telemetry.csv")
//	states, _ := fieldset.LoadCSV("states.csv")
//
//	ds, _ := fieldset.NewDataset(telemetry, states, nil)
//
//	// Sample the commanded pitch at the temperature timestamps.
//	pitch, _ := ds.MapStateToMSID("pitch", "1deamzt", "telemetry")
//	_ = ds.Export("out.csv", []field.Ref{field.Named("1deamzt"), pitch.Ref()})
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dataset
// and source packages for the common path. For fine-grained control use
// those packages directly.
package fieldset

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/arloliu/fieldset/compress"
	"github.com/arloliu/fieldset/dataset"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/source"
)

// NewDataset builds a dataset from the conventional telemetry, states and
// model sources. Nil sources are skipped.
//
// Parameters:
//   - telemetry: Sampled measurements, registered under "telemetry"
//   - states: Commanded state intervals, registered under "states"
//   - model: Model predictions, registered under "model"
//   - opts: Additional dataset options such as dataset.WithLogger
//
// Returns:
//   - *dataset.Dataset: The dataset, ready for queries
//   - error: Any error raised while registering source fields
//
// Example:
//
//	ds, err := fieldset.NewDataset(telemetry, states, model,
//	    dataset.WithStrictRegistration(),
//	)
func NewDataset(telemetry, states, model source.Source, opts ...dataset.Option) (*dataset.Dataset, error) {
	all := make([]dataset.Option, 0, len(opts)+3)
	for _, s := range []struct {
		sourceType string
		src        source.Source
	}{
		{field.SourceTelemetry, telemetry},
		{field.SourceStates, states},
		{field.SourceModel, model},
	} {
		if s.src != nil && !isNilMemory(s.src) {
			all = append(all, dataset.WithSource(s.sourceType, s.src))
		}
	}
	all = append(all, opts...)

	return dataset.New(all...)
}

// isNilMemory catches a nil *source.Memory passed through the interface.
func isNilMemory(src source.Source) bool {
	m, ok := src.(*source.Memory)
	return ok && m == nil
}

// LoadCSV reads a CSV table from path into an in-memory source. Files whose
// name ends in ".zst", ".s2" or ".lz4", as written by a compressed CSV
// export, are decompressed first.
//
// Example:
//
//	telemetry, err := fieldset.LoadCSV("telemetry.csv.zst",
//	    source.WithUnitTable(table),
//	)
func LoadCSV(path string, opts ...source.Option) (*source.Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if ct, ok := compress.FromExtension(path); ok {
		codec, err := compress.GetCodec(ct)
		if err != nil {
			return nil, err
		}
		if data, err = codec.Decompress(data); err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}

	m, err := source.ReadCSV(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// LoadParquet reads a Parquet table from path into an in-memory source.
func LoadParquet(ctx context.Context, path string, opts ...source.Option) (*source.Memory, error) {
	return source.ReadParquet(ctx, path, opts...)
}

// FieldKey returns the 64-bit key of a field identity, the same key the
// registry and caches use.
//
// Example:
//
//	key := fieldset.FieldKey("telemetry", "1DEAMZT") // same as ("telemetry", "1deamzt")
func FieldKey(sourceType, name string) uint64 {
	return field.NewID(sourceType, name).Key()
}
