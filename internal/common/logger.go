package common

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel maps a config string to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// ToSlogLevel converts LogLevel to slog.Level.
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger is the structured logger used across the engine.
type Logger struct {
	*slog.Logger
	level LogLevel
}

// NewLogger builds a logger with the given level and format. Supported
// formats: "text" (default), "json", "color". When mask is true, sensitive
// attribute values (tokens, passwords, authorization headers) are replaced
// before emission.
func NewLogger(level LogLevel, format string, mask bool) *Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlogLevel()}
	var masker *Masker
	if mask {
		masker = NewMasker()
	}
	if masker != nil {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			return masker.MaskAttr(a)
		}
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "color":
		handler = NewColorHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return &Logger{Logger: slog.New(handler), level: level}
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// WithComponent returns a logger with component context.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component), level: l.level}
}

// WithStep returns a logger with step context.
func (l *Logger) WithStep(name string) *Logger {
	return &Logger{Logger: l.Logger.With("step", name), level: l.level}
}

// WithRequest returns a logger with HTTP request context.
func (l *Logger) WithRequest(method, url string) *Logger {
	return &Logger{Logger: l.Logger.With("method", method, "url", url), level: l.level}
}

var defaultLogger = NewLogger(LogLevelInfo, "text", true)

// SetDefaultLogger sets the process-wide default logger.
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger.
func GetLogger() *Logger {
	return defaultLogger
}
