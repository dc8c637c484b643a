// Package logging builds the zerolog logger shared by the program.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New returns a console logger writing to w. Every entry carries a run id
// so interleaved runs can be told apart.
func New(w io.Writer, level string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return NewJSON(console, level)
}

// NewJSON returns a logger writing JSON lines to w.
func NewJSON(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
}

// Component returns a child logger tagged with component.
func Component(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
