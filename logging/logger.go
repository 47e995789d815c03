// Package logging defines the logger the decoder reports its trace and
// warnings to, along with adapters for the standard library logger.
package logging

import (
	"io"
	"log"
)

// Classification is the severity attached to a log entry.
type Classification string

const (
	Warn  Classification = "WARN"
	Debug Classification = "DEBUG"
)

// Logger receives formatted entries. Logf supports the fmt package verbs.
type Logger interface {
	Logf(level Classification, format string, v ...interface{})
}

// LevelEnabler is implemented by loggers that drop some classifications.
// Callers may consult it to skip building entries nobody will see.
type LevelEnabler interface {
	Enabled(level Classification) bool
}

// Enabled reports whether logger keeps entries of the given classification.
// Loggers that do not implement LevelEnabler are assumed to keep everything.
func Enabled(logger Logger, level Classification) bool {
	if logger == nil {
		return false
	}
	le, ok := logger.(LevelEnabler)
	if !ok {
		return true
	}
	return le.Enabled(level)
}

// LoggerFunc adapts a plain function to the Logger interface.
type LoggerFunc func(level Classification, format string, v ...interface{})

// Logf calls f.
func (f LoggerFunc) Logf(level Classification, format string, v ...interface{}) {
	f(level, format, v...)
}

// Noop discards every entry.
type Noop struct{}

// Logf discards the entry.
func (Noop) Logf(Classification, string, ...interface{}) {}

// Enabled always returns false.
func (Noop) Enabled(Classification) bool { return false }

// StandardLogger writes entries through a standard library *log.Logger, with
// the classification in front of the message. Debug entries are dropped
// unless Verbose is set.
type StandardLogger struct {
	Logger  *log.Logger
	Verbose bool
}

// Logf writes the entry unless it is a Debug entry on a quiet logger.
func (s StandardLogger) Logf(classification Classification, format string, v ...interface{}) {
	if !s.Enabled(classification) {
		return
	}
	if len(classification) != 0 {
		format = string(classification) + " " + format
	}
	s.Logger.Printf(format, v...)
}

// Enabled reports whether entries of the classification are written.
func (s StandardLogger) Enabled(classification Classification) bool {
	return classification != Debug || s.Verbose
}

// NewStandardLogger returns a StandardLogger writing entries prefixed with
// "bencode: " to w.
func NewStandardLogger(w io.Writer, verbose bool) *StandardLogger {
	return &StandardLogger{
		Logger:  log.New(w, "bencode: ", log.LstdFlags),
		Verbose: verbose,
	}
}
