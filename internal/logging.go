package internal

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// NewLogger returns a logger tagged with component, writing JSON lines to
// stdout, or human-readable lines when cfg.Console is set.
func NewLogger(component string, cfg LogConfig) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}
	}
	return newLogger(out, component, cfg.Level)
}

func newLogger(out io.Writer, component, level string) zerolog.Logger {
	name := "realmhooks"
	if component != "" {
		name = name + "/" + component
	}
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("component", name).
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}
