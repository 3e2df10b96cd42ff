// Package logger implements a logging adapter using zerolog.
package logger

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
)

// FormatJSON selects line-delimited JSON output. Any other format writes human-readable lines.
const FormatJSON = "json"

// Logger implements ports.Logger using zerolog.
type Logger struct {
	core   *core
	fields []field
}

type field struct {
	key   string
	value any
}

// core is shared by a logger and every logger derived from it with With.
type core struct {
	mu     sync.RWMutex
	zl     zerolog.Logger
	level  zerolog.Level
	format string
}

// New creates a new Logger writing to stderr at info level.
func New() ports.Logger {
	return NewWithConfig(domain.LogConfig{Level: "info"})
}

// NewWithConfig creates a new Logger writing to stderr.
func NewWithConfig(cfg domain.LogConfig) *Logger {
	c := &core{
		level:  toZerologLevel(domain.ParseLogLevel(cfg.Level)),
		format: cfg.Format,
	}
	c.zl = c.build(os.Stderr)
	return &Logger{core: c}
}

// SetOutput updates the logger's output destination.
// Loggers derived with With share the new destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.zl = l.core.build(w)
}

func (c *core) build(w io.Writer) zerolog.Logger {
	if c.format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(c.level).With().Timestamp().Logger()
}

func (l *Logger) logger() *zerolog.Logger {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	zl := l.core.zl
	return &zl
}

func (l *Logger) withFields(e *zerolog.Event) *zerolog.Event {
	for _, f := range l.fields {
		e = e.Interface(f.key, f.value)
	}
	return e
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.withFields(l.logger().Debug()).Msg(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.withFields(l.logger().Info()).Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.withFields(l.logger().Warn()).Msg(msg)
}

// Error logs an error together with any metadata attached along its chain.
func (l *Logger) Error(err error) {
	e := l.withFields(l.logger().Error()).Err(err)
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if z, ok := cur.(*zerr.Error); ok {
			for k, v := range z.Metadata() {
				e = e.Interface(k, v)
			}
		}
	}
	e.Msg("operation failed")
}

// With returns a logger that attaches the field to every entry.
func (l *Logger) With(key string, value any) ports.Logger {
	fields := make([]field, len(l.fields), len(l.fields)+1)
	copy(fields, l.fields)
	return &Logger{
		core:   l.core,
		fields: append(fields, field{key: key, value: value}),
	}
}

func toZerologLevel(level domain.LogLevel) zerolog.Level {
	switch level {
	case domain.LogLevelDebug:
		return zerolog.DebugLevel
	case domain.LogLevelWarn:
		return zerolog.WarnLevel
	case domain.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
