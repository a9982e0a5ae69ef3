// Package utils provides some small utility functions.
package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Log will format and write the provided message to out if available.
func Log(out io.Writer, msg string) {
	if out != nil {
		_, _ = fmt.Fprintf(out, "==> %s\n", msg)
	}
}

var (
	logMutex  sync.Mutex
	logBase   zerolog.Logger
	logLoaded bool
)

// ConfigureLogger sets up the base logger. An empty level falls back to the
// UBLOXCFG_LOG environment variable and then to "info". A nil writer logs to
// standard error.
func ConfigureLogger(level string, out io.Writer) {
	// acquire mutex
	logMutex.Lock()
	defer logMutex.Unlock()

	// determine level
	lvl := zerolog.InfoLevel
	if level == "" {
		level = os.Getenv("UBLOXCFG_LOG")
	}
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	// ensure writer
	if out == nil {
		out = os.Stderr
	}

	// create logger
	logBase = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
	}).Level(lvl).With().Timestamp().Logger()
	logLoaded = true
}

// Logger returns a child of the base logger tagged with the component name.
func Logger(component string) zerolog.Logger {
	// acquire mutex
	logMutex.Lock()
	defer logMutex.Unlock()

	// ensure base
	if !logLoaded {
		logMutex.Unlock()
		ConfigureLogger("", nil)
		logMutex.Lock()
	}

	return logBase.With().Str("component", component).Logger()
}
