package boxannot

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level orders log lines by severity. Lines below the logger level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the level names case-insensitively. An empty string is
// LevelInfo.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelInfo, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Named returns a logger for one component sharing this logger's
	// output and level.
	Named(component string) Logger
}

// logSink is the output and level shared by a logger and its named children.
type logSink struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	err   *log.Logger
}

type DefaultLogger struct {
	sink   *logSink
	prefix string
}

func NewDefaultLogger(prefix string, level Level) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, prefix, level)
}

// NewLoggerTo writes debug and info lines to out, warnings and errors to errOut.
func NewLoggerTo(out, errOut io.Writer, prefix string, level Level) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		prefix: prefix,
		sink: &logSink{
			level: level,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
	}
}

func (l *DefaultLogger) Named(component string) Logger {
	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "." + component
	}
	return &DefaultLogger{sink: l.sink, prefix: prefix}
}

func (l *DefaultLogger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.Level() <= LevelDebug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else if l.Level() == LevelDebug {
		l.SetLevel(LevelInfo)
	}
}

func (l *DefaultLogger) write(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", level, msg)
	}
	if level >= LevelWarn {
		l.sink.err.Print(msg)
		return
	}
	l.sink.out.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.write(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.write(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.write(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.write(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }
func (nopLogger) DebugEnabled() bool            { return false }
func (nopLogger) SetDebug(bool)                 {}
func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
func (n nopLogger) Named(string) Logger         { return n }

// Logger returns the application logger, or a no-op logger. Never returns nil.
func (app *App) Logger() Logger {
	if app == nil || app.log == nil {
		return NewNopLogger()
	}
	return app.log
}
