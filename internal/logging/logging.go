package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log and SLog are the process-wide loggers. They start as no-ops so packages
// and tests can log before Init is called.
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

// Init builds the global logger. format is "console" for development output,
// anything else selects JSON.
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Log = logger
	SLog = logger.Sugar()
	zap.ReplaceGlobals(logger)
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
