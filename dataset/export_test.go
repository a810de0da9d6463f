package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldset/compress"
	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/format"
	"github.com/arloliu/fieldset/source"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestDataset_ExportCSV(t *testing.T) {
	ds := newTestDataset(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := ds.Export(path, []field.Ref{field.Named("1deamzt"), field.Of("telemetry", "x")})
	require.NoError(t, err)

	want := []string{
		"time,date,telemetry_1deamzt,telemetry_x",
		"0,1998:001:00:00:00.000,20,1",
		"10,1998:001:00:00:10.000,21,2",
		"20,1998:001:00:00:20.000,22,",
		"30,1998:001:00:00:30.000,23,4",
	}
	if diff := cmp.Diff(want, readLines(t, path)); diff != "" {
		t.Fatalf("exported CSV mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
}

func TestDataset_ExportAlignment(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	err := ds.Export(path, []field.Ref{field.Named("1deamzt"), field.Named("pitch"), field.Of("model", "x")})
	require.ErrorIs(t, err, errs.ErrTimeAlignmentMismatch)

	var alignment *errs.TimeAlignmentError
	require.ErrorAs(t, err, &alignment)
	require.Equal(t, "telemetry.1deamzt", alignment.Reference)
	require.Equal(t, []string{"states.pitch"}, alignment.Mismatched)

	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestDataset_ExportMask(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "masked.csv")
	mask := []bool{true, false, true, true}

	err := ds.Export(path, []field.Ref{field.Named("1deamzt"), field.Of("model", "x")}, WithMask(mask))
	require.NoError(t, err)

	lines := readLines(t, path)
	require.Len(t, lines, 1+3, "one row per true mask entry")
	require.Equal(t, "20,1998:001:00:00:20.000,22,3", lines[2])

	err = ds.Export(path, []field.Ref{field.Named("1deamzt"), field.Named("pitch")}, WithMask(mask), WithOverwrite())
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
	require.ErrorContains(t, err, "states.pitch")

	err = ds.Export(path, []field.Ref{field.Named("1deamzt")}, WithMask(nil), WithOverwrite())
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestDataset_ExportDestination(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	refs := []field.Ref{field.Named("1deamzt")}

	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o600))

	err := ds.Export(path, refs)
	var exists *errs.DestinationExistsError
	require.ErrorAs(t, err, &exists)
	require.Equal(t, path, exists.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "keep", string(data))

	require.NoError(t, ds.Export(path, refs, WithOverwrite()))
	require.Equal(t, "time,date,telemetry_1deamzt", readLines(t, path)[0])
}

func TestDataset_ExportErrors(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "out")

	require.ErrorIs(t, ds.Export(path, nil), errs.ErrNoFields)
	require.ErrorIs(t, ds.Export(path, []field.Ref{field.Named("x")}), errs.ErrAmbiguousField)
	require.ErrorIs(t, ds.Export(path, []field.Ref{field.Named("nope")}), errs.ErrUnknownField)
	require.ErrorIs(t, ds.Export(path, []field.Ref{field.Named("1deamzt")}, WithFormat(format.ExportFormat(9))), errs.ErrUnsupportedFormat)
	require.ErrorIs(t, ds.Export(path, []field.Ref{field.Named("1deamzt")}, WithCompression(format.CompressionType(9))), errs.ErrUnsupportedFormat)
	require.ErrorIs(t, ds.Export(path, []field.Ref{field.Named("1deamzt")},
		WithFormat(format.ExportParquet), WithCompression(format.CompressionZstd)), errs.ErrUnsupportedFormat)

	require.ErrorIs(t, ds.Export(filepath.Join(t.TempDir(), "missing", "out.csv"), []field.Ref{field.Named("1deamzt")}), os.ErrNotExist)
}

func TestDataset_ExportCompressedCSV(t *testing.T) {
	ds := newTestDataset(t)
	dir := t.TempDir()
	refs := []field.Ref{field.Named("1deamzt"), field.Of("telemetry", "x"), field.Of("model", "x")}

	plainPath := filepath.Join(dir, "plain.csv")
	require.NoError(t, ds.Export(plainPath, refs))
	plain, err := os.ReadFile(plainPath)
	require.NoError(t, err)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			path := filepath.Join(dir, "out.csv"+compress.Extension(ct))
			require.NoError(t, ds.Export(path, refs, WithCompression(ct)))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			codec, err := compress.GetCodec(ct)
			require.NoError(t, err)
			decoded, err := codec.Decompress(data)
			require.NoError(t, err)
			require.Equal(t, plain, decoded)
		})
	}
}

func TestDataset_ExportParquetRoundTrip(t *testing.T) {
	ds := newTestDataset(t)
	_, err := ds.MapStateToMSID("pcad_mode", "1deamzt", "telemetry")
	require.NoError(t, err)
	_, err = ds.MapStateToMSID("pitch", "1deamzt", "telemetry")
	require.NoError(t, err)

	refs := []field.Ref{
		field.Named("1deamzt"),
		field.Of("telemetry", "x"),
		field.Of("telemetry", "pcad_mode"),
		field.Of("telemetry", "pitch"),
	}
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ds.Export(path, refs, WithFormat(format.ExportParquet)))

	back, err := source.ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"telemetry_1deamzt", "telemetry_pcad_mode", "telemetry_pitch", "telemetry_x"}, back.Keys())

	type column struct {
		Times  []float64
		Mask   []bool
		Floats []float64
		Texts  []string
	}
	read := func(name string, text bool) column {
		c, err := back.Get(name)
		require.NoError(t, err)

		col := column{Times: c.Times().Starts(), Mask: c.Mask()}
		if text {
			col.Texts = c.Strings()
		} else {
			col.Floats = c.Valid().Floats()
		}

		return col
	}

	want := map[string]column{
		"telemetry_1deamzt":   {Times: sampleTimes, Mask: []bool{true, true, true, true}, Floats: []float64{20, 21, 22, 23}},
		"telemetry_x":         {Times: sampleTimes, Mask: []bool{true, true, false, true}, Floats: []float64{1, 2, 4}},
		"telemetry_pcad_mode": {Times: sampleTimes, Mask: []bool{true, true, true, true}, Texts: []string{"NPNT", "NPNT", "NMAN", "NMAN"}},
		"telemetry_pitch":     {Times: sampleTimes, Mask: []bool{false, true, true, false}, Floats: []float64{90, 120}},
	}
	got := map[string]column{
		"telemetry_1deamzt":   read("telemetry_1deamzt", false),
		"telemetry_x":         read("telemetry_x", false),
		"telemetry_pcad_mode": read("telemetry_pcad_mode", true),
		"telemetry_pitch":     read("telemetry_pitch", false),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parquet round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDataset_ExportIntervalsCSV(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "pitch.csv")

	require.NoError(t, ds.Export(path, []field.Ref{field.Named("pitch")}))

	want := []string{
		"time,date,tstart,tstop,states_pitch",
		"5,1998:001:00:00:05.000,5,15,90",
		"15,1998:001:00:00:15.000,15,25,120",
	}
	if diff := cmp.Diff(want, readLines(t, path)); diff != "" {
		t.Fatalf("exported CSV mismatch (-want +got):\n%s", diff)
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	back, err := source.ReadCSV(f)
	require.NoError(t, err)
	pitch, err := back.Get("states_pitch")
	require.NoError(t, err)
	require.True(t, pitch.IsInterval())
	require.Equal(t, []float64{15, 25}, pitch.Times().Stops())
}

func TestDataset_ExportIntervalsParquet(t *testing.T) {
	ds := newTestDataset(t)
	path := filepath.Join(t.TempDir(), "pitch.parquet")

	require.NoError(t, ds.Export(path, []field.Ref{field.Named("pitch")}, WithFormat(format.ExportParquet)))

	back, err := source.ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"states_pitch"}, back.Keys())

	pitch, err := back.Get("states_pitch")
	require.NoError(t, err)
	require.True(t, pitch.IsInterval())
	require.Equal(t, []float64{5, 15}, pitch.Times().Starts())
	require.Equal(t, []float64{15, 25}, pitch.Times().Stops())
	require.Equal(t, []float64{90, 120}, pitch.Floats())
}
