// Package logger builds the zap logger used for diagnostics. User-facing
// output goes to stdout through the cmd package; the logger only writes to
// stderr and, when configured, to a rotating log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel names a log level as it appears in flags and environment.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config defines logger output.
type Config struct {
	Level      LogLevel
	OutputPath string // rotating JSON file; empty disables
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool

	// Console receives human-readable lines; defaults to os.Stderr.
	Console io.Writer
}

// ParseLevel maps a LogLevel to its zap level.
func ParseLevel(l LogLevel) (zapcore.Level, error) {
	switch LogLevel(strings.ToLower(string(l))) {
	case DebugLevel:
		return zapcore.DebugLevel, nil
	case InfoLevel:
		return zapcore.InfoLevel, nil
	case WarnLevel, "":
		return zapcore.WarnLevel, nil
	case ErrorLevel:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", l)
	}
}

// New builds a logger from config. The console core uses the configured
// level; the file core, when enabled, always records debug and above.
func New(config Config) (*zap.Logger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	console := config.Console
	if console == nil {
		console = os.Stderr
	}
	consoleConfig := encoderConfig
	consoleConfig.TimeKey = ""
	consoleConfig.CallerKey = ""
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleConfig),
		zapcore.AddSync(console),
		level,
	)

	core := consoleCore
	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.OutputPath,
			MaxSize:    orDefault(config.MaxSize, 10),
			MaxBackups: orDefault(config.MaxBackups, 3),
			MaxAge:     orDefault(config.MaxAge, 28),
			Compress:   config.Compress,
		})
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			zapcore.DebugLevel,
		)
		core = zapcore.NewTee(consoleCore, fileCore)
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
