// Package logger builds the application logger. Logs go to stderr so
// command output on stdout stays clean for piping.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the application logger. Verbose mode lowers the level to
// debug and keeps caller annotations; otherwise only warnings and
// errors are shown.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}

	return cfg.Build()
}
