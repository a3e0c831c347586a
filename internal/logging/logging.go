// Package logging installs the process-wide go-nuts logger at the configured level.
package logging

import (
	"fmt"
	"strings"

	nuts "github.com/vaudience/go-nuts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel turns a config string ("debug", "info", "warn", ...) into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Setup builds a production zap logger at the given level and installs it as nuts.L.
// The returned function flushes buffered entries and should be deferred by main.
func Setup(level string) (func(), error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return func() {}, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		return func() {}, fmt.Errorf("error building logger: %w", err)
	}

	nuts.L = logger.Sugar()
	nuts.L.Debugf("[Logging] Logger initialized at level %s", lvl)

	return func() { _ = logger.Sync() }, nil
}
