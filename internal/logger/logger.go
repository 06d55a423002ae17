// Package logger provides a small leveled logger for the application.
// Three levels are supported: off (no output), normal (info/warn/error)
// and verbose (adds debug). Loggers derived with Named share the level
// and output of their parent. All methods are safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level controls the verbosity of the logger.
type Level int32

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the config name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("level(%d)", int32(l))
	}
}

// ParseLevel maps a config string to a Level. Accepts "off"/"quiet",
// "normal"/"info" and "verbose"/"debug".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	}
	return LevelNormal, fmt.Errorf("unknown log level %q", s)
}

// Logger is a leveled logger.
type Logger struct {
	level  *atomic.Int32
	prefix string
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.Ltime
	lvl := new(atomic.Int32)
	lvl.Store(int32(level))

	return &Logger{
		level:  lvl,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Named returns a child logger that tags every line with component.
func (l *Logger) Named(component string) *Logger {
	child := *l
	if l.prefix != "" {
		child.prefix = l.prefix[:len(l.prefix)-2] + "." + component + ": "
	} else {
		child.prefix = component + ": "
	}
	return &child
}

// SetLevel changes the log level at runtime. Named children follow.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	if l.GetLevel() >= LevelVerbose {
		l.debug.Output(2, l.prefix+fmt.Sprintf(format, args...))
	}
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	if l.GetLevel() >= LevelNormal {
		l.info.Output(2, l.prefix+fmt.Sprintf(format, args...))
	}
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	if l.GetLevel() >= LevelNormal {
		l.warn.Output(2, l.prefix+fmt.Sprintf(format, args...))
	}
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	if l.GetLevel() >= LevelNormal {
		l.errLog.Output(2, l.prefix+fmt.Sprintf(format, args...))
	}
}

// Writer returns an io.Writer that logs each write at info level. Used to
// route third-party output (gin's access log) through the logger.
func (l *Logger) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		msg := strings.TrimRight(string(p), "\n")
		if msg != "" {
			l.Info("%s", msg)
		}
		return len(p), nil
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
