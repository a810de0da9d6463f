package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldset/errs"
)

type testColumn struct {
	name  string
	typ   arrow.DataType
	value any
	valid []bool
}

func writeTestParquet(t *testing.T, rows int64, cols []testColumn) string {
	t.Helper()

	mem := memory.NewGoAllocator()
	chunks := make([]arrow.Array, 0, len(cols))
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		switch col.typ {
		case arrow.PrimitiveTypes.Float64:
			b := array.NewFloat64Builder(mem)
			b.AppendValues(col.value.([]float64), col.valid)
			chunks = append(chunks, b.NewArray())
		case arrow.PrimitiveTypes.Int64:
			b := array.NewInt64Builder(mem)
			b.AppendValues(col.value.([]int64), col.valid)
			chunks = append(chunks, b.NewArray())
		case arrow.BinaryTypes.String:
			b := array.NewStringBuilder(mem)
			b.AppendValues(col.value.([]string), col.valid)
			chunks = append(chunks, b.NewArray())
		case arrow.FixedWidthTypes.Boolean:
			b := array.NewBooleanBuilder(mem)
			b.AppendValues(col.value.([]bool), col.valid)
			chunks = append(chunks, b.NewArray())
		}
		fields[i] = arrow.Field{Name: col.name, Type: col.typ, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, chunks, rows)
	defer rec.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	path := filepath.Join(t.TempDir(), "table.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))
	require.NoError(t, pqarrow.WriteTable(table, f, 4096, props, pqarrow.DefaultWriterProps()))
	_ = f.Close()

	return path
}

func TestReadParquet(t *testing.T) {
	path := writeTestParquet(t, 3, []testColumn{
		{name: "time", typ: arrow.PrimitiveTypes.Float64, value: []float64{0, 10, 20}},
		{name: "date", typ: arrow.BinaryTypes.String, value: []string{"a", "b", "c"}},
		{name: "telemetry_1deamzt", typ: arrow.PrimitiveTypes.Float64, value: []float64{20, 0, 22}, valid: []bool{true, false, true}},
		{name: "Counts", typ: arrow.PrimitiveTypes.Int64, value: []int64{1, 2, 3}},
		{name: "mode", typ: arrow.BinaryTypes.String, value: []string{"NPNT", "NMAN", "NPNT"}},
		{name: "in_sun", typ: arrow.FixedWidthTypes.Boolean, value: []bool{true, false, true}},
	})

	m, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"counts", "in_sun", "mode", "telemetry_1deamzt"}, m.Keys())

	temp, err := m.Get("telemetry_1deamzt")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 10, 20}, temp.Times().Starts())
	require.Equal(t, []bool{true, false, true}, temp.Mask())
	require.Equal(t, 22.0, temp.Floats()[2])

	counts, err := m.Get("counts")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, counts.Floats())

	mode, err := m.Get("mode")
	require.NoError(t, err)
	require.Equal(t, []string{"NPNT", "NMAN", "NPNT"}, mode.Strings())

	sun, err := m.Get("in_sun")
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, sun.Bools())
}

func TestReadParquet_Intervals(t *testing.T) {
	path := writeTestParquet(t, 2, []testColumn{
		{name: "tstart", typ: arrow.PrimitiveTypes.Float64, value: []float64{0, 10}},
		{name: "tstop", typ: arrow.PrimitiveTypes.Float64, value: []float64{10, 20}},
		{name: "pitch", typ: arrow.PrimitiveTypes.Float64, value: []float64{90, 120}},
	})

	m, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)

	pitch, err := m.Get("pitch")
	require.NoError(t, err)
	require.True(t, pitch.IsInterval())
	require.Equal(t, []float64{10, 20}, pitch.Times().Stops())
}

func TestReadParquet_Errors(t *testing.T) {
	noTime := writeTestParquet(t, 1, []testColumn{
		{name: "x", typ: arrow.PrimitiveTypes.Float64, value: []float64{1}},
	})
	_, err := ReadParquet(context.Background(), noTime)
	require.ErrorIs(t, err, errs.ErrNoTimeColumn)

	nullTime := writeTestParquet(t, 2, []testColumn{
		{name: "time", typ: arrow.PrimitiveTypes.Float64, value: []float64{0, 1}, valid: []bool{true, false}},
	})
	_, err = ReadParquet(context.Background(), nullTime)
	require.ErrorIs(t, err, errs.ErrInvalidTimeline)

	_, err = ReadParquet(context.Background(), filepath.Join(t.TempDir(), "missing.parquet"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
