// Package logging provides structured logging for geoedit.
//
// Logger keeps a small printf-style surface (Debug, Info, Warn, Error) with
// field scoping, backed by logrus. Loggers derived with WithField or
// WithComponent share the level and output of their root, so SetLevel on
// any of them affects all.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses a string into a Level. Unknown values yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the log line encoding.
type Format string

const (
	// FormatText writes key=value lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Format is the line encoding. Defaults to FormatText.
	Format Format
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// Logger provides structured logging.
type Logger struct {
	root  *logrus.Logger
	entry *logrus.Entry
}

// New creates a logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	root := logrus.New()
	root.SetOutput(cfg.Output)
	root.SetLevel(cfg.Level.logrus())
	root.SetFormatter(formatter(cfg.Format))
	return &Logger{root: root, entry: logrus.NewEntry(root)}
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

func formatter(f Format) logrus.Formatter {
	if f == FormatJSON {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{root: l.root, entry: l.entry.WithField(key, value)}
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{root: l.root, entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithError returns a new logger carrying err.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{root: l.root, entry: l.entry.WithError(err)}
}

// SetLevel sets the minimum log level for this logger and every logger
// sharing its root.
func (l *Logger) SetLevel(level Level) {
	l.root.SetLevel(level.logrus())
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	switch l.root.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// SetFormat switches the line encoding.
func (l *Logger) SetFormat(f Format) {
	l.root.SetFormatter(formatter(f))
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.root.SetOutput(w)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(logrus.DebugLevel, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(logrus.InfoLevel, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(logrus.WarnLevel, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(logrus.ErrorLevel, msg, args...)
}

func (l *Logger) log(level logrus.Level, msg string, args ...any) {
	if len(args) > 0 {
		l.entry.Logf(level, msg, args...)
		return
	}
	l.entry.Log(level, msg)
}
