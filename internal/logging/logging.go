package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper around zap's sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger. Verbose enables debug output,
// otherwise only info and above is shown.
func NewLogger(verbose bool) *Logger {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		// fall back to a bare logger rather than failing startup
		logger = zap.NewNop()
	}

	return &Logger{logger.Sugar()}
}

// Nop returns a logger that discards everything. Used by library code
// when no logger was supplied.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
