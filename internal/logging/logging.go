// Package logging builds the zerolog logger used by the command line tool
// and adapts it to the parser's diagnostic sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/quizbank/parser"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error (default: warn)
	Format string // console or json (default: console)
	File   string // optional log file, appended to
	Out    io.Writer
}

// Logger wraps zerolog with an optional log file.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", name)
}

// New creates a Logger writing to cfg.Out (stderr if nil) and, when set,
// cfg.File.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	l := &Logger{}
	writers := []io.Writer{out}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	l.Logger = zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Component returns a child logger with the component field set.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Sink reports parser diagnostics to logger: anomalies at warn, everything
// else at debug.
func Sink(logger zerolog.Logger) parser.Sink {
	return parser.SinkFunc(func(d parser.Diagnostic) {
		ev := logger.Debug()
		if d.Event.Anomaly() {
			ev = logger.Warn()
		}
		ev = ev.Str("event", d.Event.String())
		if d.Line > 0 {
			ev = ev.Int("line", d.Line)
		}
		if d.Detail != "" {
			ev = ev.Str("detail", d.Detail)
		}
		ev.Str("text", d.Text).Msg("parse")
	})
}
