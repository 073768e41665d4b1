package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu sync.RWMutex
	// The process logger is built with AddCallerSkip(1) for the printf
	// wrappers below; direct undoes it for callers that log on L().
	direct *zap.Logger
	sugar  *zap.SugaredLogger
)

func init() {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	set(l)
}

func set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	direct = l.WithOptions(zap.AddCallerSkip(-1))
	sugar = l.Sugar()
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Init replaces the process logger. level is one of debug, info, warn, error;
// format is json or console. Production environments default to JSON output.
func Init(level, format, environment string) error {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	switch strings.ToLower(format) {
	case "json":
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	case "console":
		cfg.Encoding = "console"
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	set(l)
	return nil
}

// Nop silences all output; used by tests.
func Nop() {
	set(zap.NewNop())
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// L returns the structured logger for call sites that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return direct
}

func Sync() {
	_ = L().Sync()
}

func Info(format string, v ...interface{}) {
	s().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	s().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	s().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	s().Warnf(format, v...)
}
