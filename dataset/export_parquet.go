package dataset

import (
	"io"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"

	"github.com/arloliu/fieldset/value"
)

const parquetRowGroupSize = 4096

func writeParquet(w io.Writer, tbl *table) error {
	mem := memory.NewGoAllocator()
	rows := int64(tbl.rows())

	fields := make([]arrow.Field, 0, len(tbl.ids)+4)
	chunks := make([]arrow.Array, 0, len(tbl.ids)+4)
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()

	timeBuilder := array.NewFloat64Builder(mem)
	defer timeBuilder.Release()
	timeBuilder.AppendValues(tbl.times, nil)
	fields = append(fields, arrow.Field{Name: ColumnTime, Type: arrow.PrimitiveTypes.Float64})
	chunks = append(chunks, timeBuilder.NewArray())

	dateBuilder := array.NewStringBuilder(mem)
	defer dateBuilder.Release()
	dateBuilder.AppendValues(tbl.dates, nil)
	fields = append(fields, arrow.Field{Name: ColumnDate, Type: arrow.BinaryTypes.String})
	chunks = append(chunks, dateBuilder.NewArray())

	if tbl.isInterval() {
		for _, col := range []struct {
			name  string
			times []float64
		}{{ColumnStart, tbl.times}, {ColumnStop, tbl.stops}} {
			b := array.NewFloat64Builder(mem)
			b.AppendValues(col.times, nil)
			fields = append(fields, arrow.Field{Name: col.name, Type: arrow.PrimitiveTypes.Float64})
			chunks = append(chunks, b.NewArray())
			b.Release()
		}
	}

	for i, c := range tbl.fields {
		typ, chunk := parquetArray(mem, c)
		fields = append(fields, arrow.Field{Name: tbl.ids[i].Column(), Type: typ, Nullable: true})
		chunks = append(chunks, chunk)
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, chunks, rows)
	defer rec.Release()
	at := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer at.Release()

	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))

	return pqarrow.WriteTable(at, w, parquetRowGroupSize, props, pqarrow.DefaultWriterProps())
}

func parquetArray(mem memory.Allocator, c *value.Container) (arrow.DataType, arrow.Array) {
	mask := c.Mask()

	switch c.Kind() {
	case value.KindText:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Strings(), mask)

		return arrow.BinaryTypes.String, b.NewArray()
	case value.KindBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Bools(), mask)

		return arrow.FixedWidthTypes.Boolean, b.NewArray()
	default:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(c.Floats(), mask)

		return arrow.PrimitiveTypes.Float64, b.NewArray()
	}
}
