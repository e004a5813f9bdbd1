// Package logger provides the component-scoped structured logger used across
// droneops.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debugf(string, ...any)         {}
func (Nop) Debugw(string, map[string]any) {}
func (Nop) Infof(string, ...any)          {}
func (Nop) Warnf(string, ...any)          {}
func (Nop) Errorf(string, ...any)         {}

// Options configure New. Zero values log JSON at info level to stderr.
type Options struct {
	Level  string
	Format string
	Out    io.Writer
}

type zlog struct {
	log zerolog.Logger
}

// New returns a zerolog-backed Logger tagged with component. Console output is
// used when opts.Format is "console" or DROPS_ENV=dev.
func New(component string, opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	format := strings.ToLower(opts.Format)
	if format == "" && strings.ToLower(os.Getenv("DROPS_ENV")) == "dev" {
		format = "console"
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	z := zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
	return &zlog{log: z}
}

// With returns a child of l with an extra component-style field. Loggers that
// are not zerolog-backed are returned unchanged.
func With(l Logger, key, value string) Logger {
	if z, ok := l.(*zlog); ok {
		return &zlog{log: z.log.With().Str(key, value).Logger()}
	}
	return l
}

func (l *zlog) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zlog) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *zlog) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zlog) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zlog) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
