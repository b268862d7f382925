package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// JSONLogger emits one JSON object per line. Loggers derived with With
// share the parent's writer lock, so a logger family never interleaves
// output mid-line even when children log concurrently.
type JSONLogger struct {
	out    io.Writer
	mu     *sync.Mutex
	level  atomic.Int32
	fields []Field
}

// NewJSONLogger returns a logger writing to w at the given minimum level.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	l := &JSONLogger{
		out: w,
		mu:  &sync.Mutex{},
	}
	l.level.Store(int32(level))
	return l
}

// NewDefaultLogger returns a stdout logger at INFO level.
func NewDefaultLogger() *JSONLogger {
	return NewJSONLogger(os.Stdout, InfoLevel)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < Level(l.level.Load()) {
		return
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}

	// Call-site fields override pre-set fields on key collision.
	if n := len(l.fields) + len(fields); n > 0 {
		merged := make(map[string]any, n)
		for _, f := range l.fields {
			merged[f.Key] = f.Value
		}
		for _, f := range fields {
			merged[f.Key] = f.Value
		}
		entry.Fields = merged
	}

	line, err := json.Marshal(entry)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.out, "{\"level\":\"ERROR\",\"msg\":\"unloggable entry: %v\"}\n", err)
		l.mu.Unlock()
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	l.out.Write(line)
	l.mu.Unlock()
}

// Debug logs at DEBUG level.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs at INFO level.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs at WARN level.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs at ERROR level.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With returns a child logger carrying the given fields on every entry.
// The child starts at the parent's current level but tracks its own
// level afterwards.
func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	child := &JSONLogger{
		out:    l.out,
		mu:     l.mu,
		fields: merged,
	}
	child.level.Store(l.level.Load())
	return child
}

// SetLevel changes the minimum level for this logger.
func (l *JSONLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel reports the current minimum level.
func (l *JSONLogger) GetLevel() Level {
	return Level(l.level.Load())
}

var (
	defaultLogger Logger
	once          sync.Once
)

// DefaultLogger returns the process-wide logger. On first use the level
// is taken from the LOG_LEVEL environment variable.
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if s := os.Getenv("LOG_LEVEL"); s != "" {
			level = ParseLevel(s)
		}
		defaultLogger = NewJSONLogger(os.Stdout, level)
	})
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// Debug logs at DEBUG level on the default logger.
func Debug(msg string, fields ...Field) {
	DefaultLogger().Debug(msg, fields...)
}

// Info logs at INFO level on the default logger.
func Info(msg string, fields ...Field) {
	DefaultLogger().Info(msg, fields...)
}

// Warn logs at WARN level on the default logger.
func Warn(msg string, fields ...Field) {
	DefaultLogger().Warn(msg, fields...)
}

// ErrorLog logs at ERROR level on the default logger. The name avoids
// a collision with the Error field constructor.
func ErrorLog(msg string, fields ...Field) {
	DefaultLogger().Error(msg, fields...)
}

// With derives a child of the default logger with fields pre-set.
func With(fields ...Field) Logger {
	return DefaultLogger().With(fields...)
}

// TimedOperation measures how long an operation took and logs it on End.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at INFO level with its duration attached.
func (t *TimedOperation) End() {
	t.logger.Info(t.msg, append(t.fields, Latency(time.Since(t.start)))...)
}

// EndError logs the operation at ERROR level with its duration and the failure.
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, append(t.fields, Latency(time.Since(t.start)), Error(err))...)
}
