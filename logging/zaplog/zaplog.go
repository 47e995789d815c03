// Package zaplog adapts a zap logger to the logging.Logger interface.
package zaplog

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/torrentkit/bencode/logging"
)

// Logger forwards log entries to a zap SugaredLogger. Debug entries map to
// zap's debug level, Warn entries to warn, and anything else to info.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	_ logging.Logger       = (*Logger)(nil)
	_ logging.LevelEnabler = (*Logger)(nil)
)

// Wrap returns a Logger backed by l.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{sugar: l.Sugar()}
}

// New returns a Logger writing console-encoded entries with ISO8601 timestamps
// to w. Debug entries are dropped unless debug is set.
func New(w io.Writer, debug bool) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		level,
	)
	return Wrap(zap.New(core, zap.AddStacktrace(zap.ErrorLevel)))
}

// Logf logs the formatted message at the zap level matching classification.
func (l *Logger) Logf(classification logging.Classification, format string, v ...interface{}) {
	switch classification {
	case logging.Debug:
		l.sugar.Debugf(format, v...)
	case logging.Warn:
		l.sugar.Warnf(format, v...)
	default:
		l.sugar.Infof(format, v...)
	}
}

// Enabled reports whether the underlying core keeps entries of the zap level
// matching classification.
func (l *Logger) Enabled(classification logging.Classification) bool {
	return l.sugar.Desugar().Core().Enabled(level(classification))
}

func level(classification logging.Classification) zapcore.Level {
	switch classification {
	case logging.Debug:
		return zap.DebugLevel
	case logging.Warn:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
