package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/format"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/value"
)

// Fixed leading export columns. ColumnStart and ColumnStop are only written
// when the first field holds interval samples.
const (
	ColumnTime  = "time"
	ColumnDate  = "date"
	ColumnStart = "tstart"
	ColumnStop  = "tstop"
)

type exportConfig struct {
	mask        []bool
	overwrite   bool
	format      format.ExportFormat
	compression format.CompressionType
}

// ExportOption configures Export.
type ExportOption = options.Option[*exportConfig]

// WithMask exports only the rows where mask is true. Every exported field
// must then have exactly len(mask) samples; timelines are not compared.
func WithMask(mask []bool) ExportOption {
	return options.New(func(cfg *exportConfig) error {
		if mask == nil {
			return fmt.Errorf("%w: nil export mask", errs.ErrLengthMismatch)
		}
		cfg.mask = slices.Clone(mask)

		return nil
	})
}

// WithOverwrite replaces an existing destination file.
func WithOverwrite() ExportOption {
	return options.NoError(func(cfg *exportConfig) {
		cfg.overwrite = true
	})
}

// WithFormat selects the file format. The default is format.ExportCSV.
func WithFormat(f format.ExportFormat) ExportOption {
	return options.New(func(cfg *exportConfig) error {
		switch f {
		case format.ExportCSV, format.ExportParquet:
			cfg.format = f
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedFormat, f)
		}
	})
}

// WithCompression compresses a CSV export as a whole. Parquet files use
// their own internal encoding and reject this option.
func WithCompression(c format.CompressionType) ExportOption {
	return options.New(func(cfg *exportConfig) error {
		switch c {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.compression = c
			return nil
		default:
			return fmt.Errorf("%w: compression %s", errs.ErrUnsupportedFormat, c)
		}
	})
}

// table is the aligned, row-filtered data of one export.
type table struct {
	ids    []field.ID
	fields []*value.Container
	times  []float64
	stops  []float64 // nil unless the first field is an interval field
	dates  []string
}

func (t *table) isInterval() bool {
	return t.stops != nil
}

func (t *table) rows() int {
	return len(t.times)
}

// Export writes fields as a table to path.
//
// Columns are "time" and "date" taken from the first field, then one
// "<source>_<name>" column per field. When the first field holds intervals,
// "tstart" and "tstop" follow "date" so the table reads back as interval
// data through source.ReadCSV and source.ReadParquet. Invalid samples are written as empty
// CSV cells or Parquet nulls.
//
// Without WithMask every field must share the first field's timeline, else
// a *errs.TimeAlignmentError names the offending fields. An existing path
// fails with *errs.DestinationExistsError unless WithOverwrite is given. The
// file is written to a temporary file in the same directory and renamed into
// place, so a failed export leaves nothing behind.
func (d *Dataset) Export(path string, refs []field.Ref, opts ...ExportOption) error {
	cfg, err := options.Build(exportConfig{
		format:      format.ExportCSV,
		compression: format.CompressionNone,
	}, opts...)
	if err != nil {
		return err
	}
	if cfg.format == format.ExportParquet && cfg.compression != format.CompressionNone {
		return fmt.Errorf("%w: %s compression of %s exports", errs.ErrUnsupportedFormat, cfg.compression, cfg.format)
	}
	if len(refs) == 0 {
		return errs.ErrNoFields
	}

	tbl, err := d.buildTable(refs, cfg.mask)
	if err != nil {
		return err
	}

	if !cfg.overwrite {
		if _, err := os.Stat(path); err == nil {
			return &errs.DestinationExistsError{Path: path}
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	write := func(w io.Writer) error { return writeCSV(w, tbl, cfg.compression) }
	if cfg.format == format.ExportParquet {
		write = func(w io.Writer) error { return writeParquet(w, tbl) }
	}

	if err := writeAtomic(path, write); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	d.logger.Debugf("exported %d fields, %d rows to %s (%s, %s)", len(tbl.ids), tbl.rows(), path, cfg.format, cfg.compression)

	return nil
}

func (d *Dataset) buildTable(refs []field.Ref, mask []bool) (*table, error) {
	tbl := &table{
		ids:    make([]field.ID, 0, len(refs)),
		fields: make([]*value.Container, 0, len(refs)),
	}

	for _, ref := range refs {
		id, err := d.registry.Resolve(ref)
		if err != nil {
			return nil, err
		}
		c, err := d.Get(id.Ref())
		if err != nil {
			return nil, err
		}
		tbl.ids = append(tbl.ids, id)
		tbl.fields = append(tbl.fields, c)
	}

	if mask == nil {
		var mismatched []string
		for i, c := range tbl.fields[1:] {
			if !value.SameTimeline(tbl.fields[0], c) {
				mismatched = append(mismatched, tbl.ids[i+1].String())
			}
		}
		if len(mismatched) > 0 {
			return nil, &errs.TimeAlignmentError{Reference: tbl.ids[0].String(), Mismatched: mismatched}
		}
	} else {
		for i, c := range tbl.fields {
			if c.Len() != len(mask) {
				return nil, fmt.Errorf("%w: %s has %d samples, mask has %d",
					errs.ErrLengthMismatch, tbl.ids[i], c.Len(), len(mask))
			}

			filtered, err := c.Filter(mask)
			if err != nil {
				return nil, err
			}
			tbl.fields[i] = filtered
		}
	}

	tbl.times = tbl.fields[0].Times().Starts()
	tbl.stops = tbl.fields[0].Times().Stops()
	tbl.dates = tbl.fields[0].Dates()

	return tbl, nil
}

func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	// The parquet writer closes io.Closer sinks; keep the close here.
	if err = write(struct{ io.Writer }{tmp}); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
