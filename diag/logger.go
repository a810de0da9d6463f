// Package diag provides the pluggable diagnostic sink used by the engine.
//
// Nothing in fieldset writes to a process-wide logger: every component that
// emits diagnostics takes a Logger, and NopLogger is the default.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// RFC3339UsecTz0 is the timestamp layout of StandardLogger lines.
const RFC3339UsecTz0 = "2006-01-02T15:04:05.000000Z07:00"

// Logger is the diagnostic sink interface.
type Logger interface {
	Printf(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	// WithPrefix returns a Logger with the same configuration whose
	// messages all carry the given prefix.
	WithPrefix(prefix string) Logger
}

// Verbosity levels, least verbose first.
const (
	LevelError = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// LevelPrefix returns the fixed-width tag written in front of a message.
func LevelPrefix(level int) string {
	return [...]string{"ERROR: ", "WARN:  ", "INFO:  ", "DEBUG: "}[level]
}

var _ Logger = &nopLogger{}

// NopLogger discards everything.
var NopLogger Logger = &nopLogger{}

type nopLogger struct{}

func (n *nopLogger) Printf(format string, v ...any) {}
func (n *nopLogger) Debugf(format string, v ...any) {}
func (n *nopLogger) Infof(format string, v ...any)  {}
func (n *nopLogger) Warnf(format string, v ...any)  {}
func (n *nopLogger) Errorf(format string, v ...any) {}

func (n *nopLogger) WithPrefix(prefix string) Logger {
	return n
}

// StandardLogger writes leveled lines through a log.Logger, stamped in UTC
// with microsecond resolution.
type StandardLogger struct {
	logger    *log.Logger
	verbosity int
	prefix    string
	w         io.Writer
}

var _ Logger = &StandardLogger{}

type formatLog struct {
	w io.Writer
}

func (fl formatLog) Write(p []byte) (int, error) {
	return fmt.Fprintf(fl.w, "%v %v", time.Now().UTC().Format(RFC3339UsecTz0), string(p))
}

func newStandardLogger(w io.Writer, verbosity int, prefix string) *StandardLogger {
	logger := log.New(formatLog{w: w}, prefix, 0)
	return &StandardLogger{
		logger:    logger,
		verbosity: verbosity,
		prefix:    prefix,
		w:         w,
	}
}

// NewStandardLogger returns a logger writing info and above to w.
func NewStandardLogger(w io.Writer) *StandardLogger {
	return newStandardLogger(w, LevelInfo, "")
}

// NewVerboseLogger returns a logger writing every level to w.
func NewVerboseLogger(w io.Writer) *StandardLogger {
	return newStandardLogger(w, LevelDebug, "")
}

// NewStderrLogger returns a standard logger on os.Stderr.
func NewStderrLogger() *StandardLogger {
	return NewStandardLogger(os.Stderr)
}

func (s *StandardLogger) printf(level int, format string, v ...any) {
	if level > s.verbosity {
		return
	}
	s.logger.Printf(LevelPrefix(level)+format, v...)
}

func (s *StandardLogger) Printf(format string, v ...any) { s.printf(LevelInfo, format, v...) }
func (s *StandardLogger) Debugf(format string, v ...any) { s.printf(LevelDebug, format, v...) }
func (s *StandardLogger) Infof(format string, v ...any)  { s.printf(LevelInfo, format, v...) }
func (s *StandardLogger) Warnf(format string, v ...any)  { s.printf(LevelWarn, format, v...) }
func (s *StandardLogger) Errorf(format string, v ...any) { s.printf(LevelError, format, v...) }

func (s *StandardLogger) WithPrefix(prefix string) Logger {
	return newStandardLogger(s.w, s.verbosity, s.prefix+prefix)
}

// Logfer is anything with a Logf method, such as testing.T.
type Logfer interface {
	Logf(format string, v ...any)
}

// LogfLogger routes every level to a Logfer.
type LogfLogger struct {
	wrapped Logfer
	prefix  string
}

var _ Logger = &LogfLogger{}

// NewLogfLogger wraps l.
func NewLogfLogger(l Logfer) *LogfLogger {
	return &LogfLogger{wrapped: l}
}

func (ll *LogfLogger) logf(level int, format string, v ...any) {
	ll.wrapped.Logf(ll.prefix+LevelPrefix(level)+format, v...)
}

func (ll *LogfLogger) Printf(format string, v ...any) { ll.logf(LevelInfo, format, v...) }
func (ll *LogfLogger) Debugf(format string, v ...any) { ll.logf(LevelDebug, format, v...) }
func (ll *LogfLogger) Infof(format string, v ...any)  { ll.logf(LevelInfo, format, v...) }
func (ll *LogfLogger) Warnf(format string, v ...any)  { ll.logf(LevelWarn, format, v...) }
func (ll *LogfLogger) Errorf(format string, v ...any) { ll.logf(LevelError, format, v...) }

func (ll *LogfLogger) WithPrefix(prefix string) Logger {
	return &LogfLogger{wrapped: ll.wrapped, prefix: ll.prefix + prefix}
}

// BufferLogger keeps messages in memory for inspection in tests.
type BufferLogger struct {
	mu     *sync.Mutex
	buf    *bytes.Buffer
	prefix string
}

var _ Logger = &BufferLogger{}

// NewBufferLogger returns an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		mu:  &sync.Mutex{},
		buf: &bytes.Buffer{},
	}
}

func (b *BufferLogger) write(level int, format string, v ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.buf, b.prefix+LevelPrefix(level)+format+"\n", v...)
}

func (b *BufferLogger) Printf(format string, v ...any) { b.write(LevelInfo, format, v...) }
func (b *BufferLogger) Debugf(format string, v ...any) { b.write(LevelDebug, format, v...) }
func (b *BufferLogger) Infof(format string, v ...any)  { b.write(LevelInfo, format, v...) }
func (b *BufferLogger) Warnf(format string, v ...any)  { b.write(LevelWarn, format, v...) }
func (b *BufferLogger) Errorf(format string, v ...any) { b.write(LevelError, format, v...) }

// WithPrefix returns a logger sharing this buffer.
func (b *BufferLogger) WithPrefix(prefix string) Logger {
	return &BufferLogger{mu: b.mu, buf: b.buf, prefix: b.prefix + prefix}
}

// String returns everything logged so far.
func (b *BufferLogger) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
