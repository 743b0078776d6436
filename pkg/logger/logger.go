package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger writes leveled, timestamped lines. Fields attached with With are
// appended to every line as key=value pairs.
type Logger struct {
	level  Level
	logger *log.Logger
	fields string
	now    func() time.Time
}

func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, os.Stdout)
}

// NewWithWriter builds a Logger that writes to w instead of stdout.
func NewWithWriter(levelStr string, w io.Writer) *Logger {
	return &Logger{
		level:  parseLevel(levelStr),
		logger: log.New(w, "", 0),
		now:    time.Now,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{level: ErrorLevel + 1, logger: log.New(io.Discard, "", 0), now: time.Now}
}

func parseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// With returns a child logger carrying an extra key=value field.
func (l *Logger) With(key string, value interface{}) *Logger {
	child := *l
	child.fields = fmt.Sprintf("%s %s=%v", l.fields, key, value)
	return &child
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, prefix string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	timestamp := l.now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprint(v...)
	l.logger.Printf("[%s] %s %s%s", timestamp, prefix, msg, l.fields)
}

func (l *Logger) Debug(v ...interface{}) {
	l.log(DebugLevel, "[DEBUG]", v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.log(InfoLevel, "[INFO]", v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(WarnLevel, "[WARN]", v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(ErrorLevel, "[ERROR]", v...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, "[DEBUG]", fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, "[INFO]", fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, "[WARN]", fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, "[ERROR]", fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(ErrorLevel, "[FATAL]", v...)
	os.Exit(1)
}
