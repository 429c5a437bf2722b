package listener

import (
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

var defaultLogger = zerolog.New(os.Stdout).With().
	Timestamp().
	Str("component", "realmhooks/listener").
	Logger()

// watermillLogger adapts a zerolog logger to watermill.LoggerAdapter.
type watermillLogger struct {
	log zerolog.Logger
}

// NewWatermillLogger wraps logger for use by watermill components.
func NewWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return watermillLogger{log: logger}
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.log.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.log.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.log.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{log: w.log.With().Fields(map[string]interface{}(fields)).Logger()}
}
