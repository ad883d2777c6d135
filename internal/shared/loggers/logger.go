package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006.01.02 15:04:05"

// Logger is a wrapper around zerolog.Logger for convenience.
type Logger = zerolog.Logger

func init() {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a zerolog logger at the given level.
//
// An empty file writes human-readable lines to stderr. Otherwise JSON lines are
// appended to file and the returned Closer releases it.
func New(level string, file string) (Logger, io.Closer, error) {
	zerologLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	if file == "" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}
	} else {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file %q: %w", file, err)
		}
		out, closer = f, f
	}

	logger := zerolog.New(out).
		Level(zerologLevel).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

// Critical starts a message at fatal level without terminating the process.
func Critical(logger *Logger) *zerolog.Event {
	return logger.WithLevel(zerolog.FatalLevel)
}

// Ctx extracts a logger from the context.
// Returns a no-op logger if no logger is found in context.
var Ctx = func(ctx context.Context) *Logger {
	return zerolog.Ctx(ctx)
}
