package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "kinfash-api").Logger()

// InitLogger configures Logger. format "console" switches to the human
// readable writer.
func InitLogger(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	Logger = zerolog.New(out).
		With().
		Timestamp().
		Str("service", "kinfash-api").
		Logger().
		Level(ParseLevel(level))
}

func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// LogError logs an error with context
func LogError(message string, err error) {
	if err != nil {
		Logger.Error().Err(err).Msg(message)
	}
}

// LogInfo logs an informational message
func LogInfo(message string) {
	Logger.Info().Msg(message)
}

// LogWarning logs a warning message
func LogWarning(message string) {
	Logger.Warn().Msg(message)
}
