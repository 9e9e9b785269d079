// Package logging builds the zap loggers used by the commands.
//
// Diagnostics go to stderr with a console encoder and no timestamps, so
// they interleave cleanly with the benchmark's own stderr report lines.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger on w at Info, or Debug when debug is set.
// The commands pass os.Stderr.
func New(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return NewWithSink(zapcore.Lock(zapcore.AddSync(w)), level)
}

// NewWithSink returns a console logger writing to ws at level.
func NewWithSink(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, level)
	return zap.New(core)
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
