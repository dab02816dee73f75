// Package logging provides the structured logger used across the storefront
// service. Loggers are named per component and backed by a shared zap core.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

var (
	baseMu sync.RWMutex
	base   = zap.NewNop()
)

func init() {
	if l, err := build("info", "json"); err == nil {
		base = l
	}
}

// Configure replaces the shared zap core. Loggers created afterwards use the
// new level and encoding; existing loggers keep theirs.
func Configure(level, format string) error {
	l, err := build(level, format)
	if err != nil {
		return err
	}
	baseMu.Lock()
	old := base
	base = l
	baseMu.Unlock()
	_ = old.Sync()
	return nil
}

func build(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "console", "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build(zap.AddCallerSkip(1))
}

func current() *zap.Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return base
}

// LoggerV2 is a named structured logger.
type LoggerV2 struct {
	z *zap.Logger
}

// NewLoggerV2 creates a logger tagged with the given component name.
func NewLoggerV2(name string) *LoggerV2 {
	return &LoggerV2{z: current().With(zap.String("component", name))}
}

// NewNopLogger returns a logger that discards everything. Used in tests.
func NewNopLogger() *LoggerV2 {
	return &LoggerV2{z: zap.NewNop()}
}

// With returns a child logger that always includes fields.
func (l *LoggerV2) With(fields Fields) *LoggerV2 {
	return &LoggerV2{z: l.z.With(toZap(fields)...)}
}

func (l *LoggerV2) Debug(msg string, fields ...Fields) {
	l.z.Debug(msg, toZap(fields...)...)
}

func (l *LoggerV2) Info(msg string, fields ...Fields) {
	l.z.Info(msg, toZap(fields...)...)
}

func (l *LoggerV2) Warn(msg string, fields ...Fields) {
	l.z.Warn(msg, toZap(fields...)...)
}

func (l *LoggerV2) Error(msg string, fields ...Fields) {
	l.z.Error(msg, toZap(fields...)...)
}

// Fatal logs and exits the process.
func (l *LoggerV2) Fatal(msg string, fields ...Fields) {
	l.z.Fatal(msg, toZap(fields...)...)
}

// Sync flushes buffered entries.
func (l *LoggerV2) Sync() error {
	return l.z.Sync()
}

// Info logs on the shared logger.
func Info(msg string, fields ...Fields) {
	current().Info(msg, toZap(fields...)...)
}

// Infof logs a formatted message on the shared logger.
func Infof(format string, args ...interface{}) {
	current().Sugar().Infof(format, args...)
}

// Errorf logs a formatted error on the shared logger.
func Errorf(format string, args ...interface{}) {
	current().Sugar().Errorf(format, args...)
}

// Sync flushes the shared logger.
func Sync() {
	_ = current().Sync()
}

func toZap(fields ...Fields) []zap.Field {
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	if n == 0 {
		return nil
	}
	out := make([]zap.Field, 0, n)
	for _, f := range fields {
		for k, v := range f {
			if err, ok := v.(error); ok {
				out = append(out, zap.NamedError(k, err))
				continue
			}
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
