package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// log writes to stderr so that stdout carries only message text.
var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}

// SetOutput redirects the package logger, mostly for tests.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

func ParseLevel(level string) zerolog.Level {
	switch level {
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
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}
