// Package logging sets up the zerolog logger shared by the tools and the
// gnark backend.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

// Logger writes to a console and, optionally, a log file.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger at level writing to console. Unknown levels fall back
// to info. A non-empty logFile is opened for appending and receives the same
// events as JSON lines.
func New(level string, logFile string, console io.Writer) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := &Logger{}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// Setup is New followed by routing gnark's own logging into the result.
func Setup(level string, logFile string, console io.Writer) (*Logger, error) {
	l, err := New(level, logFile, console)
	if err != nil {
		return nil, err
	}
	gnarklogger.Set(l.With().Str("component", "gnark").Logger())
	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Timer logs the duration of a named step when stopped.
type Timer struct {
	log   *Logger
	name  string
	start time.Time
}

// Start begins timing a step.
func (l *Logger) Start(name string) *Timer {
	return &Timer{log: l, name: name, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.log.Debug().
		Str("step", t.name).
		Dur("elapsed", elapsed).
		Msg("step finished")
	return elapsed
}
