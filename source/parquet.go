package source

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/value"
)

// ReadParquet loads a Parquet table into a Memory source.
//
// The table needs a float64 "time" column, or "tstart"/"tstop" columns for
// interval data; a "date" column is skipped. Float64 and int64 columns become
// numeric fields, string columns text fields and boolean columns bool fields.
// Null cells are masked out.
func ReadParquet(ctx context.Context, path string, opts ...Option) (*Memory, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	mem := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	columns := make(map[string]*arrow.Column, table.NumCols())
	names := make([]string, 0, table.NumCols())
	for i := 0; i < int(table.NumCols()); i++ {
		name := field.Normalize(table.Schema().Field(i).Name)
		columns[name] = table.Column(i)
		names = append(names, name)
	}

	timeline, err := parquetTimeline(columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	src := newMemory(cfg)
	for _, name := range names {
		switch name {
		case ColumnTime, ColumnDate, ColumnStart, ColumnStop:
			continue
		}

		c, err := parquetColumn(columns[name], timeline)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if err := src.Add(name, c); err != nil {
			return nil, err
		}
	}
	cfg.logger.Debugf("read %d parquet columns with %d rows from %s", src.Len(), table.NumRows(), path)

	return src, nil
}

func parquetTimeline(columns map[string]*arrow.Column) (value.Timeline, error) {
	if start, ok := columns[ColumnStart]; ok {
		stop, ok := columns[ColumnStop]
		if !ok {
			return value.Timeline{}, fmt.Errorf("%w: %q without %q", errs.ErrNoTimeColumn, ColumnStart, ColumnStop)
		}

		starts, err := parquetTimes(start)
		if err != nil {
			return value.Timeline{}, err
		}
		stops, err := parquetTimes(stop)
		if err != nil {
			return value.Timeline{}, err
		}

		return value.Intervals(starts, stops), nil
	}

	col, ok := columns[ColumnTime]
	if !ok {
		return value.Timeline{}, errs.ErrNoTimeColumn
	}

	times, err := parquetTimes(col)
	if err != nil {
		return value.Timeline{}, err
	}

	return value.Points(times), nil
}

func parquetTimes(col *arrow.Column) ([]float64, error) {
	nums, mask, err := parquetFloats(col)
	if err != nil {
		return nil, err
	}
	for i, valid := range mask {
		if !valid {
			return nil, fmt.Errorf("%w: null time at row %d", errs.ErrInvalidTimeline, i)
		}
	}

	return nums, nil
}

func parquetFloats(col *arrow.Column) ([]float64, []bool, error) {
	nums := make([]float64, 0, col.Len())
	mask := make([]bool, 0, col.Len())

	for _, chunk := range col.Data().Chunks() {
		switch arr := chunk.(type) {
		case *array.Float64:
			for j := 0; j < arr.Len(); j++ {
				valid := arr.IsValid(j)
				v := math.NaN()
				if valid {
					v = arr.Value(j)
				}
				nums = append(nums, v)
				mask = append(mask, valid)
			}
		case *array.Int64:
			for j := 0; j < arr.Len(); j++ {
				valid := arr.IsValid(j)
				v := math.NaN()
				if valid {
					v = float64(arr.Value(j))
				}
				nums = append(nums, v)
				mask = append(mask, valid)
			}
		default:
			return nil, nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, col.DataType())
		}
	}

	return nums, mask, nil
}

func parquetColumn(col *arrow.Column, timeline value.Timeline) (*value.Container, error) {
	switch col.DataType().ID() {
	case arrow.FLOAT64, arrow.INT64:
		nums, mask, err := parquetFloats(col)
		if err != nil {
			return nil, err
		}

		return value.NewNumeric(nums, timeline, mask, "")

	case arrow.STRING:
		texts := make([]string, 0, col.Len())
		mask := make([]bool, 0, col.Len())
		for _, chunk := range col.Data().Chunks() {
			arr, ok := chunk.(*array.String)
			if !ok {
				return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedColumnType, chunk)
			}
			for j := 0; j < arr.Len(); j++ {
				texts = append(texts, arr.Value(j))
				mask = append(mask, arr.IsValid(j))
			}
		}

		return value.NewText(texts, timeline, mask)

	case arrow.BOOL:
		bools := make([]bool, 0, col.Len())
		mask := make([]bool, 0, col.Len())
		for _, chunk := range col.Data().Chunks() {
			arr, ok := chunk.(*array.Boolean)
			if !ok {
				return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedColumnType, chunk)
			}
			for j := 0; j < arr.Len(); j++ {
				bools = append(bools, arr.Value(j))
				mask = append(mask, arr.IsValid(j))
			}
		}

		return value.NewBool(bools, timeline, mask)

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, col.DataType())
	}
}
