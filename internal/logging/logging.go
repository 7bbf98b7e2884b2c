package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the probe logger. Interactive runs get a console writer on
// stderr; jsonOutput switches to plain JSON lines for log shippers.
// An unknown level falls back to info.
func New(level string, jsonOutput bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if jsonOutput {
		return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}
