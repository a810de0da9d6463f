package diag

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNopLogger(t *testing.T) {
	require.NotPanics(t, func() {
		NopLogger.Printf("a %d", 1)
		NopLogger.Debugf("a")
		NopLogger.Infof("a")
		NopLogger.Warnf("a")
		NopLogger.Errorf("a")
		NopLogger.WithPrefix("x").Warnf("a")
	})
}

func TestStandardLoggerVerbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger(&buf)

	logger.Debugf("hidden %d", 1)
	logger.Infof("shown %d", 2)
	logger.Warnf("careful")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO:  shown 2")
	require.Contains(t, out, "WARN:  careful")

	buf.Reset()
	verbose := NewVerboseLogger(&buf)
	verbose.Debugf("visible")
	require.Contains(t, buf.String(), "DEBUG: visible")
}

func TestStandardLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger(&buf).WithPrefix("[dataset] ")
	logger.Errorf("boom")

	require.Contains(t, buf.String(), "[dataset] ERROR: boom")
}

type recorder struct {
	lines []string
}

func (r *recorder) Logf(format string, v ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

func TestLogfLogger(t *testing.T) {
	rec := &recorder{}
	logger := NewLogfLogger(rec)

	logger.Warnf("unit for %q missing", "x")
	logger.WithPrefix("src: ").Infof("loaded")

	require.Equal(t, []string{`WARN:  unit for "x" missing`, "src: INFO:  loaded"}, rec.lines)
}

func TestBufferLogger(t *testing.T) {
	logger := NewBufferLogger()
	logger.Warnf("first")
	logger.WithPrefix("p: ").Errorf("second")

	lines := strings.Split(strings.TrimSpace(logger.String()), "\n")
	require.Equal(t, []string{"WARN:  first", "p: ERROR: second"}, lines)
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debugf("d %d", 1)
	logger.Warnf("w %s", "x")
	logger.WithPrefix("dataset").Errorf("e")

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "d 1", entries[0].Message)
	require.Equal(t, zap.WarnLevel, entries[1].Level)
	require.Equal(t, "dataset", entries[2].LoggerName)
}

func TestZapLoggerNil(t *testing.T) {
	require.NotPanics(t, func() {
		NewZapLogger(nil).Infof("ignored")
	})
}
