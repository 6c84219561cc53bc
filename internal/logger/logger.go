// Package logger builds the process logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a console logger with the given level. Unknown levels fall back
// to info.
func New(level string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
