package diag

import "go.uber.org/zap"

// ZapLogger adapts a zap SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = &ZapLogger{}

// NewZapLogger wraps sugar. A nil sugar yields a no-op zap logger.
func NewZapLogger(sugar *zap.SugaredLogger) *ZapLogger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}

	return &ZapLogger{sugar: sugar}
}

func (z *ZapLogger) Printf(format string, v ...any) { z.sugar.Infof(format, v...) }
func (z *ZapLogger) Debugf(format string, v ...any) { z.sugar.Debugf(format, v...) }
func (z *ZapLogger) Infof(format string, v ...any)  { z.sugar.Infof(format, v...) }
func (z *ZapLogger) Warnf(format string, v ...any)  { z.sugar.Warnf(format, v...) }
func (z *ZapLogger) Errorf(format string, v ...any) { z.sugar.Errorf(format, v...) }

// WithPrefix names the underlying zap logger.
func (z *ZapLogger) WithPrefix(prefix string) Logger {
	return &ZapLogger{sugar: z.sugar.Named(prefix)}
}
