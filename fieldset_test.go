package fieldset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldset/dataset"
	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/format"
	"github.com/arloliu/fieldset/source"
)

const telemetryCSV = `time,1deamzt,aoattqt1
0,20,0.1
10,21,0.2
20,22,0.3
`

const statesCSV = `tstart,tstop,pitch
0,15,90
15,30,120
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNewDataset_EndToEnd(t *testing.T) {
	telemetry, err := LoadCSV(writeFile(t, "telemetry.csv", telemetryCSV))
	require.NoError(t, err)
	states, err := LoadCSV(writeFile(t, "states.csv", statesCSV))
	require.NoError(t, err)

	ds, err := NewDataset(telemetry, states, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"telemetry", "states"}, ds.Sources())

	pitch, err := ds.MapStateToMSID("pitch", "1deamzt", "telemetry")
	require.NoError(t, err)

	c, err := ds.Get(pitch.Ref())
	require.NoError(t, err)
	require.Equal(t, []float64{90, 90, 120}, c.Floats())

	out := filepath.Join(t.TempDir(), "out.csv.zst")
	require.NoError(t, ds.Export(out, []field.Ref{field.Named("1deamzt"), pitch.Ref()},
		dataset.WithCompression(format.CompressionZstd)))

	back, err := LoadCSV(out)
	require.NoError(t, err)
	require.Equal(t, []string{"telemetry_1deamzt", "telemetry_pitch"}, back.Keys())

	temps, err := back.Get("telemetry_1deamzt")
	require.NoError(t, err)
	require.Equal(t, []float64{20, 21, 22}, temps.Floats())
}

func TestNewDataset_NilSources(t *testing.T) {
	var model *source.Memory

	ds, err := NewDataset(nil, nil, model)
	require.NoError(t, err)
	require.Empty(t, ds.Sources())
}

func TestLoadCSV_Errors(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadCSV(writeFile(t, "bad.csv.lz4", "not lz4"))
	require.Error(t, err)

	_, err = LoadCSV(writeFile(t, "notime.csv", "x\n1\n"))
	require.ErrorIs(t, err, errs.ErrNoTimeColumn)
}

func TestLoadParquet(t *testing.T) {
	telemetry, err := LoadCSV(writeFile(t, "telemetry.csv", telemetryCSV))
	require.NoError(t, err)
	ds, err := NewDataset(telemetry, nil, nil)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ds.Export(out, []field.Ref{field.Named("aoattqt1")}, dataset.WithFormat(format.ExportParquet)))

	back, err := LoadParquet(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, []string{"telemetry_aoattqt1"}, back.Keys())
}

func TestFieldKey(t *testing.T) {
	require.Equal(t, FieldKey("telemetry", "1deamzt"), FieldKey("TELEMETRY", "1DEAMZT"))
	require.NotEqual(t, FieldKey("telemetry", "x"), FieldKey("model", "x"))
}
