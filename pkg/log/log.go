// Package log builds the zap loggers used for diagnostics.
// User-facing progress output is printed separately; loggers write to stderr.
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported logger output encodings.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Defaults keep the terminal quiet unless something goes wrong.
const (
	DefaultLevel  = LevelWarn
	DefaultFormat = FormatConsole
)

var levelMapping = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// ParseLevel validates a level name (case-insensitive).
func ParseLevel(raw string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := levelMapping[level]; !ok {
		return "", fmt.Errorf("unsupported log level: %s", raw)
	}
	return level, nil
}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch format {
	case FormatConsole, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported log format: %s", raw)
	}
}

// New builds a logger writing to stderr at the requested level and encoding.
func New(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = string(format)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if format == FormatConsole {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.DisableCaller = true
	}

	return cfg.Build()
}
