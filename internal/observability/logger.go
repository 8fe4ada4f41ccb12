// Package observability provides the structured logger shared by every
// component of the extractor.
package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig holds logger configuration.
type LogConfig struct {
	Level       string
	Format      string // console or json
	Output      io.Writer
	ServiceName string
}

// Logger wraps zerolog with extractor specific context helpers.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a Logger. Output defaults to stderr so that stdout stays
// free for the run summary.
func NewLogger(cfg LogConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zl zerolog.Logger
	if cfg.Format == "json" {
		zl = zerolog.New(output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
		})
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	ctx := zl.Level(level).With().Timestamp()
	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	return &Logger{zl: ctx.Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Debug starts a debug level event.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }

// Info starts an info level event.
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }

// Warn starts a warning level event.
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }

// Error starts an error level event.
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// WithStr returns a child logger carrying an extra string field.
func (l *Logger) WithStr(key, val string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, val).Logger()}
}

// WithRecord returns a child logger tagged with a résumé id.
func (l *Logger) WithRecord(id string) *Logger {
	return l.WithStr("resume_id", id)
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.WithStr("component", name)
}

// Printf logs a formatted message at debug level. It lets the logger serve
// as a gorm query log writer.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.zl.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Zerolog exposes the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }

// ParseLevel converts a level name to a zerolog level. The empty string maps
// to info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}
