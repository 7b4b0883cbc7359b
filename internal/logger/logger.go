package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger for CLI use: a console writer on
// stderr, wrapped so that credential material never reaches the terminal or a
// capture of it. Diagnostics go to stderr; task output owns stdout.
func Setup(level string) zerolog.Logger {
	return SetupWriter(level, os.Stderr)
}

// SetupWriter is Setup with an explicit sink, used by tests.
func SetupWriter(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writer io.Writer = zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	writer = NewRedactor().Wrap(writer)

	logger := zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	log.Logger = logger
	return logger
}
