package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a console logger from the CLI verbosity flags.
// verbosity counts -v occurrences: 0 = warn, 1 = info, 2+ = debug.
// quiet suppresses everything below the error level.
func NewLogger(out io.Writer, verbosity int, quiet bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	case verbosity >= 2:
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
