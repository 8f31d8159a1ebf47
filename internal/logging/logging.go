// Package logging configures the zerolog loggers of the command-line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the level chosen by flags, e.g. "debug" or "warn".
const EnvLogLevel = "CBORVISIT_LOG_LEVEL"

// New returns a console logger on stderr for app and installs it as the
// global zerolog logger.
func New(app string, verbose bool) zerolog.Logger {
	logger := NewWithWriter(os.Stderr, app, verbose)
	log.Logger = logger
	return logger
}

// NewWithWriter is New writing to w, without touching the global logger.
func NewWithWriter(w io.Writer, app string, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stderr,
	}
	return zerolog.New(output).
		Level(level(verbose)).
		With().Timestamp().Str("app", app).
		Logger()
}

func level(verbose bool) zerolog.Level {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(env)); err == nil {
			lvl = parsed
		}
	}
	return lvl
}
