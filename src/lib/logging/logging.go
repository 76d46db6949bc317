// Package logging builds the logr.Logger the host tools hand to the
// harness.  The firmware never logs; it only writes to its UART.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New logs to w in zap's development console format.  Messages at
// V(verbosity) and below are kept.
func New(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 0 {
		verbosity = 0
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	//logr's V(n) is zap level -n
	level := zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}
